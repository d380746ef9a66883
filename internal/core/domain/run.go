package domain

import "time"

// ClassificationRun records one execution of the stance classifier.
type ClassificationRun struct {
	// ID is a UUID assigned when the run starts.
	ID string `json:"id"`

	// Threshold is the entailment confidence the run used.
	Threshold float64 `json:"threshold"`

	// StartedAt is when the run started.
	StartedAt time.Time `json:"started_at"`

	// EndedAt is when the run finished, successfully or not.
	EndedAt time.Time `json:"ended_at"`

	// Success indicates whether all labels were committed.
	Success bool `json:"success"`

	// Error contains the failure message if Success is false.
	Error string `json:"error,omitempty"`

	// Summary counts the labels written. Zero on failure.
	Summary LabelSummary `json:"summary"`
}

// Duration returns how long the run took.
func (r ClassificationRun) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}
