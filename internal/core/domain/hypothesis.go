package domain

import "fmt"

// Hypothesis is one of the fixed natural-language stance statements that the
// NLI model scores against every post.
type Hypothesis string

// The eight hypotheses present in enriched records.
const (
	HypothesisFavourRussia    Hypothesis = "This statement is in favour of Russia"
	HypothesisAgainstRussia   Hypothesis = "This statement is against Russia"
	HypothesisAgainstUkraine  Hypothesis = "This statement is against Ukraine"
	HypothesisFavourUkraine   Hypothesis = "This statement is in favour of Ukraine"
	HypothesisFavourWar       Hypothesis = "This statement is in favour of war"
	HypothesisAgainstWar      Hypothesis = "This statement is against war"
	HypothesisFavourConflict  Hypothesis = "This statement is in favour of military conflict"
	HypothesisAgainstConflict Hypothesis = "This statement is against military conflict"
)

var hypothesisKeys = map[Hypothesis]string{
	HypothesisFavourRussia:    "favor_russia",
	HypothesisAgainstRussia:   "against_russia",
	HypothesisFavourUkraine:   "favor_ukraine",
	HypothesisAgainstUkraine:  "against_ukraine",
	HypothesisFavourWar:       "favor_war",
	HypothesisAgainstWar:      "against_war",
	HypothesisFavourConflict:  "favor_military_conflict",
	HypothesisAgainstConflict: "against_military_conflict",
}

// AllHypotheses returns the eight hypotheses in reporting order.
func AllHypotheses() []Hypothesis {
	return []Hypothesis{
		HypothesisFavourRussia,
		HypothesisAgainstRussia,
		HypothesisFavourUkraine,
		HypothesisAgainstUkraine,
		HypothesisFavourWar,
		HypothesisAgainstWar,
		HypothesisFavourConflict,
		HypothesisAgainstConflict,
	}
}

// IsValid returns true if h is one of the eight known statements.
func (h Hypothesis) IsValid() bool {
	_, ok := hypothesisKeys[h]
	return ok
}

// Key returns the short snake_case name used in reports and CLI arguments.
func (h Hypothesis) Key() string {
	return hypothesisKeys[h]
}

// String returns the full statement.
func (h Hypothesis) String() string {
	return string(h)
}

// ParseHypothesis resolves either a short key ("favor_russia") or the full
// statement to a Hypothesis.
func ParseHypothesis(s string) (Hypothesis, error) {
	if h := Hypothesis(s); h.IsValid() {
		return h, nil
	}
	for h, key := range hypothesisKeys {
		if key == s {
			return h, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownHypothesis, s)
}
