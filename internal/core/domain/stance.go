package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// DefaultThreshold is the confidence used by the fixed-threshold classifier.
const DefaultThreshold = 0.9

// StanceEntry is one hypothesis score within a record's stance sequence.
type StanceEntry struct {
	Hypothesis Hypothesis  `json:"hypothesis"`
	EntailProb Probability `json:"entail_prob"`
	ContraProb Probability `json:"contra_prob"`
}

// UnmarshalJSON reads only the exact keys hypothesis, entail_prob and
// contra_prob. Key matching is case-sensitive and the first occurrence of a
// duplicated key wins. A non-string hypothesis matches nothing.
func (e *StanceEntry) UnmarshalJSON(data []byte) error {
	*e = StanceEntry{}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') {
		return fmt.Errorf("stance entry: expected object, got %v", tok)
	}

	seen := make(map[string]bool, 3)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		switch key {
		case "hypothesis":
			var h string
			if json.Unmarshal(raw, &h) == nil {
				e.Hypothesis = Hypothesis(h)
			}
		case "entail_prob":
			_ = e.EntailProb.UnmarshalJSON(raw)
		case "contra_prob":
			_ = e.ContraProb.UnmarshalJSON(raw)
		}
	}
	return nil
}

// StanceSequence is the ordered list of hypothesis scores for one record.
// It may be nil (absent), empty, or hold fewer than eight entries.
type StanceSequence []StanceEntry

// UnmarshalJSON decodes a stance array leniently. Elements that are not
// objects become zero entries, which match no hypothesis. A non-array value
// decodes to a nil sequence.
func (s *StanceSequence) UnmarshalJSON(data []byte) error {
	*s = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	seq := make(StanceSequence, len(raw))
	for i, item := range raw {
		var entry StanceEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			continue
		}
		seq[i] = entry
	}
	*s = seq
	return nil
}

// ParseStanceSequence decodes stored stance text. It never fails: empty,
// null or malformed text yields a nil sequence.
func ParseStanceSequence(text string) StanceSequence {
	var seq StanceSequence
	_ = seq.UnmarshalJSON([]byte(text))
	return seq
}

// Entailment returns the entailment score recorded for h, if present.
// The first matching entry wins.
func (s StanceSequence) Entailment(h Hypothesis) (Probability, bool) {
	for _, e := range s {
		if e.Hypothesis == h {
			return e.EntailProb, true
		}
	}
	return Probability{}, false
}

// stancePredicates holds the four hypothesis tests the classifier reads.
type stancePredicates struct {
	favorsRussia   bool
	againstUkraine bool
	favorsUkraine  bool
	againstRussia  bool
}

// predicates evaluates all four tests in a single pass over the sequence.
// A predicate holds when any entry with that exact hypothesis has a valid
// entailment >= threshold.
func (s StanceSequence) predicates(threshold float64) stancePredicates {
	var p stancePredicates
	for _, e := range s {
		if !e.EntailProb.AtLeast(threshold) {
			continue
		}
		switch e.Hypothesis {
		case HypothesisFavourRussia:
			p.favorsRussia = true
		case HypothesisAgainstUkraine:
			p.againstUkraine = true
		case HypothesisFavourUkraine:
			p.favorsUkraine = true
		case HypothesisAgainstRussia:
			p.againstRussia = true
		}
	}
	return p
}

// StanceLabels are the derived classifier outputs for one record.
// Exactly one field is true after Classify.
type StanceLabels struct {
	ProRussia  bool `json:"pro_russia"`
	ProUkraine bool `json:"pro_ukraine"`
	Unsure     bool `json:"unsure"`
}

// Ints returns the labels as the 0/1 integers stored in label columns.
func (l StanceLabels) Ints() (proRussia, proUkraine, unsure int) {
	return boolInt(l.ProRussia), boolInt(l.ProUkraine), boolInt(l.Unsure)
}

// String returns the name of the set label.
func (l StanceLabels) String() string {
	switch {
	case l.ProRussia:
		return "pro_russia"
	case l.ProUkraine:
		return "pro_ukraine"
	default:
		return "unsure"
	}
}

// LabelsFromInts builds labels from stored column values.
func LabelsFromInts(proRussia, proUkraine, unsure int) StanceLabels {
	return StanceLabels{
		ProRussia:  proRussia != 0,
		ProUkraine: proUkraine != 0,
		Unsure:     unsure != 0,
	}
}

// Classify derives the stance labels for one sequence at the given threshold.
//
// pro_russia requires (favour Russia OR against Ukraine) with neither
// favour Ukraine nor against Russia; pro_ukraine is the mirror image; unsure
// is set when neither holds. Each pro label negates the other's triggers, so
// the two can never both be set.
func Classify(seq StanceSequence, threshold float64) StanceLabels {
	p := seq.predicates(threshold)

	proRussia := (p.favorsRussia || p.againstUkraine) && !p.favorsUkraine && !p.againstRussia
	proUkraine := (p.favorsUkraine || p.againstRussia) && !p.favorsRussia && !p.againstUkraine

	return StanceLabels{
		ProRussia:  proRussia,
		ProUkraine: proUkraine,
		Unsure:     !proRussia && !proUkraine,
	}
}

// Classifier returns Classify bound to a threshold, in the shape record
// stores accept for bulk label updates.
func Classifier(threshold float64) func(StanceSequence) StanceLabels {
	return func(seq StanceSequence) StanceLabels {
		return Classify(seq, threshold)
	}
}

// ValidateThreshold rejects thresholds outside [0, 1] and NaN.
func ValidateThreshold(t float64) error {
	if math.IsNaN(t) || t < 0 || t > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, t)
	}
	return nil
}

// LabelSummary counts label outcomes across a classifier run.
type LabelSummary struct {
	Records    int `json:"records"`
	ProRussia  int `json:"pro_russia"`
	ProUkraine int `json:"pro_ukraine"`
	Unsure     int `json:"unsure"`
}

// Add tallies one record's labels.
func (s *LabelSummary) Add(l StanceLabels) {
	s.Records++
	switch {
	case l.ProRussia:
		s.ProRussia++
	case l.ProUkraine:
		s.ProUkraine++
	default:
		s.Unsure++
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
