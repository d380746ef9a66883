package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidThreshold indicates a confidence threshold outside [0, 1].
	// Callers reject it before the classifier runs.
	ErrInvalidThreshold = errors.New("threshold must be within [0, 1]")

	// ErrStoreUnavailable indicates no record store is configured.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrUnknownHypothesis indicates a hypothesis key that is not one of the eight.
	ErrUnknownHypothesis = errors.New("unknown hypothesis")

	// ErrUnknownGrouping indicates a report grouping other than country or channel.
	ErrUnknownGrouping = errors.New("unknown grouping")
)
