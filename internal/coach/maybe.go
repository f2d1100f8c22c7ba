package coach

import (
	"encoding/json"
	"math"
	"strconv"
)

// Maybe is a value that may be absent. Averages over zero samples are absent,
// never zero, and callers must branch on Get to use the value.
type Maybe[T any] struct {
	value T
	ok    bool
}

func Some[T any](v T) Maybe[T] { return Maybe[T]{value: v, ok: true} }

func None[T any]() Maybe[T] { return Maybe[T]{} }

// FromPtr maps nil to None.
func FromPtr[T any](p *T) Maybe[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

func (m Maybe[T]) Get() (T, bool) { return m.value, m.ok }

func (m Maybe[T]) IsSome() bool { return m.ok }

// MarshalJSON encodes an absent value as null.
func (m Maybe[T]) MarshalJSON() ([]byte, error) {
	if !m.ok {
		return []byte("null"), nil
	}
	return json.Marshal(m.value)
}

func (m *Maybe[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Some(v)
	return nil
}

// Mean is the arithmetic mean, absent for an empty slice.
func Mean(values []float64) Maybe[float64] {
	if len(values) == 0 {
		return None[float64]()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return Some(sum / float64(len(values)))
}

// Round1 rounds half away from zero to one decimal.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// RoundMaybe1 rounds a present value to one decimal.
func RoundMaybe1(m Maybe[float64]) Maybe[float64] {
	if v, ok := m.Get(); ok {
		return Some(Round1(v))
	}
	return m
}

const notAvailable = "n/a"

// formatDecimal renders with one decimal, dropping a trailing ".0".
func formatDecimal(v float64) string {
	return strconv.FormatFloat(Round1(v), 'f', -1, 64)
}

// formatMaybe renders a present float like formatDecimal and an absent one as "n/a".
func formatMaybe(m Maybe[float64]) string {
	if v, ok := m.Get(); ok {
		return formatDecimal(v)
	}
	return notAvailable
}

// formatSigned prefixes non-negative values with "+".
func formatSigned(m Maybe[float64]) string {
	v, ok := m.Get()
	if !ok {
		return notAvailable
	}
	if v >= 0 {
		return "+" + formatDecimal(v)
	}
	return formatDecimal(v)
}

func formatIntPtr(p *int) string {
	if p == nil {
		return notAvailable
	}
	return strconv.Itoa(*p)
}

func formatFloatPtr(p *float64) string {
	if p == nil {
		return notAvailable
	}
	return formatDecimal(*p)
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
