package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"liftbrain/fitness-coach/internal/metrics"
)

// Completion failures. Callers abort on any of them and persist nothing.
var (
	ErrModelUnavailable = errors.New("ai model unavailable")
	ErrTransport        = errors.New("ai transport failure")
	ErrSchemaViolation  = errors.New("ai response did not match the expected schema")
)

// Schema is a response type that checks its own constraints.
type Schema[T any] interface {
	*T
	Validate() error
}

// Complete runs req through c and decodes the answer into T, rejecting
// empty, unparseable or invalid payloads with ErrSchemaViolation.
func Complete[T any, PT Schema[T]](ctx context.Context, c Completer, req Request) (*T, error) {
	text, err := c.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", ErrSchemaViolation)
	}

	out := new(T)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	if err := PT(out).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	return out, nil
}

// InstrumentedCompleter records duration and outcome of each call.
type InstrumentedCompleter struct {
	next    Completer
	metrics *metrics.Manager
}

func NewInstrumentedCompleter(next Completer, m *metrics.Manager) *InstrumentedCompleter {
	return &InstrumentedCompleter{next: next, metrics: m}
}

func (c *InstrumentedCompleter) Complete(ctx context.Context, req Request) (string, error) {
	defer func(begin time.Time) {
		c.metrics.HistCompletionDuration.WithLabelValues(req.Name).Observe(time.Since(begin).Seconds())
	}(time.Now())

	text, err := c.next.Complete(ctx, req)
	c.metrics.CounterCompletions.WithLabelValues(req.Name, outcome(err)).Inc()
	return text, err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrModelUnavailable):
		return "unavailable"
	case errors.Is(err, ErrSchemaViolation):
		return "schema_violation"
	default:
		return "transport_error"
	}
}
