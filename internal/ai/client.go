package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"liftbrain/fitness-coach/internal/config"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	temperature     = 0.3
	maxOutputTokens = 1800
	systemPrompt    = "You are LiftBrain, an elite strength coach. Reply ONLY with valid JSON."
)

// Request is one completion call. Name labels metrics and logs ("compliance", "weekly_plan", ...).
type Request struct {
	Name   string
	Prompt string
	Model  string // Empty uses the client's default model
}

// Completer returns the raw text the model produced for a prompt.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	api          *openai.Client
	apiKey       string
	defaultModel string
	logger       *zap.Logger
}

// NewClient builds a client from config. An empty API key yields a client
// that fails every call with ErrModelUnavailable.
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if cfg.APIKey == "" {
		logger.Warn("ai api key is not set, coach features are disabled")
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		api:          openai.NewClientWithConfig(apiCfg),
		apiKey:       cfg.APIKey,
		defaultModel: cfg.DefaultModel,
		logger:       logger,
	}
}

// Complete sends the prompt in JSON mode and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: api key not configured", ErrModelUnavailable)
	}
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature:    temperature,
		MaxTokens:      maxOutputTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return "", c.classify(req.Name, model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", ErrSchemaViolation)
	}
	return resp.Choices[0].Message.Content, nil
}

// classify maps SDK errors onto the package taxonomy. Throttling and 5xx mean
// the model is unavailable; everything else is a transport failure.
func (c *Client) classify(name, model string, err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	if status == 0 {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	c.logger.Warn("completion endpoint returned error",
		zap.String("analysis", name),
		zap.String("model", model),
		zap.Int("status", status),
		zap.Error(err),
	)
	if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrModelUnavailable, status)
	}
	return fmt.Errorf("%w: unexpected status %d", ErrTransport, status)
}
