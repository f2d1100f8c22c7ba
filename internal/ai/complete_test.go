package ai

import (
	"context"
	"errors"
	"testing"

	"liftbrain/fitness-coach/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type answer struct {
	Value string `json:"value"`
}

func (a *answer) Validate() error {
	if a.Value == "" {
		return errors.New("value is required")
	}
	return nil
}

type staticCompleter struct {
	text string
	err  error
}

func (s staticCompleter) Complete(context.Context, Request) (string, error) {
	return s.text, s.err
}

func TestComplete(t *testing.T) {
	got, err := Complete[answer](context.Background(), staticCompleter{text: "  {\"value\":\"ok\"}\n"}, Request{Name: "test"})
	require.NoError(t, err)
	assert.Equal(t, "ok", got.Value)
}

func TestComplete_Failures(t *testing.T) {
	tests := map[string]struct {
		completer staticCompleter
		want      error
	}{
		"empty":        {completer: staticCompleter{text: "   "}, want: ErrSchemaViolation},
		"not json":     {completer: staticCompleter{text: "Sure! Here is your plan"}, want: ErrSchemaViolation},
		"invalid":      {completer: staticCompleter{text: `{"value":""}`}, want: ErrSchemaViolation},
		"wrong type":   {completer: staticCompleter{text: `{"value":3}`}, want: ErrSchemaViolation},
		"passes error": {completer: staticCompleter{err: ErrModelUnavailable}, want: ErrModelUnavailable},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Complete[answer](context.Background(), tc.completer, Request{Name: "test"})

			assert.Nil(t, got)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestInstrumentedCompleter(t *testing.T) {
	m := metrics.NewTestManager()

	ok := NewInstrumentedCompleter(staticCompleter{text: "{}"}, m)
	_, err := ok.Complete(context.Background(), Request{Name: "compliance"})
	require.NoError(t, err)

	failing := NewInstrumentedCompleter(staticCompleter{err: ErrModelUnavailable}, m)
	_, err = failing.Complete(context.Background(), Request{Name: "compliance"})
	require.ErrorIs(t, err, ErrModelUnavailable)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterCompletions.WithLabelValues("compliance", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterCompletions.WithLabelValues("compliance", "unavailable")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HistCompletionDuration))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", outcome(nil))
	assert.Equal(t, "schema_violation", outcome(ErrSchemaViolation))
	assert.Equal(t, "transport_error", outcome(errors.New("x")))
}
