package core

import "time"

// SignalType represents the directional call of a signal.
type SignalType string

const (
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
)

// Valid reports whether the type is one of the known directions.
func (t SignalType) Valid() bool {
	return t == SignalBuy || t == SignalSell
}

// Signal represents a single accepted trading recommendation.
// A Signal is immutable once created; Timestamp is always assigned
// locally at acceptance, never taken from the inference response.
type Signal struct {
	ID         string     `json:"id"`
	Type       SignalType `json:"type"`
	Confidence float64    `json:"confidence"` // percentage, advisory range [0,100]
	Timeframe  string     `json:"timeframe"`
	Validity   string     `json:"validity"`
	Reasoning  string     `json:"reasoning"`
	Timestamp  time.Time  `json:"timestamp"`
}

// IsValid checks that the signal carries all required fields.
func (s Signal) IsValid() bool {
	return s.Type.Valid() && s.Timeframe != "" && s.Validity != "" && s.Reasoning != ""
}
