package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"liftbrain/fitness-coach/internal/config"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.AIConfig{
		APIKey:       "sk-test",
		BaseURL:      srv.URL + "/",
		Timeout:      5 * time.Second,
		DefaultModel: "gpt-4.1-mini",
	}, zap.NewNop())
}

func reply(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
		})
	}
}

func TestClient_Complete(t *testing.T) {
	var got openai.ChatCompletionRequest
	var auth, path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		reply(`{"value":"ok"}`)(w, r)
	})

	text, err := client.Complete(context.Background(), Request{Name: "compliance", Prompt: "hello"})

	require.NoError(t, err)
	assert.Equal(t, `{"value":"ok"}`, text)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "/chat/completions", path)
	assert.Equal(t, "gpt-4.1-mini", got.Model)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, got.ResponseFormat.Type)
	assert.InDelta(t, 0.3, got.Temperature, 1e-6)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "hello", got.Messages[1].Content)
}

func TestClient_ModelOverride(t *testing.T) {
	var got openai.ChatCompletionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		reply("{}")(w, r)
	})

	_, err := client.Complete(context.Background(), Request{Name: "weekly_plan", Prompt: "p", Model: "gpt-4.1"})

	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1", got.Model)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := map[string]struct {
		handler http.HandlerFunc
		want    error
	}{
		"rate limited": {
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTooManyRequests) },
			want:    ErrModelUnavailable,
		},
		"server error": {
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
			want:    ErrModelUnavailable,
		},
		"bad request": {
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadRequest) },
			want:    ErrTransport,
		},
		"garbage body": {
			handler: func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("<html>")) },
			want:    ErrTransport,
		},
		"no choices": {
			handler: func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"choices":[]}`)) },
			want:    ErrSchemaViolation,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, tc.handler)

			_, err := client.Complete(context.Background(), Request{Name: "compliance", Prompt: "p"})

			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestClient_NoAPIKey(t *testing.T) {
	client := NewClient(config.AIConfig{BaseURL: "http://127.0.0.1:1"}, zap.NewNop())

	_, err := client.Complete(context.Background(), Request{Name: "compliance", Prompt: "p"})

	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	client := NewClient(config.AIConfig{APIKey: "k", BaseURL: url, Timeout: time.Second}, zap.NewNop())

	_, err := client.Complete(context.Background(), Request{Name: "compliance", Prompt: "p"})

	assert.ErrorIs(t, err, ErrTransport)
}
