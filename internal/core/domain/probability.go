package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Probability is a model score that may not have parsed.
// Scores arrive as numeric strings ("0.9606") or plain numbers; anything else
// leaves Valid false, which satisfies no threshold comparison.
type Probability struct {
	Value float64
	Valid bool
}

// NewProbability returns a valid probability.
func NewProbability(v float64) Probability {
	return Probability{Value: v, Valid: true}
}

// ParseProbability converts a textual score. It never fails; unparseable
// input yields an invalid Probability.
func ParseProbability(s string) Probability {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Probability{}
	}
	return NewProbability(v)
}

// AtLeast reports whether the score is valid and >= threshold.
func (p Probability) AtLeast(threshold float64) bool {
	return p.Valid && p.Value >= threshold
}

// UnmarshalJSON accepts a JSON string or number. It never returns an error so
// one bad score cannot reject the whole stance sequence.
func (p *Probability) UnmarshalJSON(data []byte) error {
	*p = Probability{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*p = ParseProbability(s)
	case 'n', 't', 'f', '[', '{':
		// null, booleans and containers are not scores
	default:
		*p = ParseProbability(string(data))
	}
	return nil
}

// MarshalJSON writes valid scores as strings, matching the source format,
// and invalid ones as null.
func (p Probability) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(strconv.FormatFloat(p.Value, 'f', -1, 64))
}
