package driven

import (
	"context"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
)

// RecordWriter inserts records inside a batch opened by RecordStore.WithBatch.
type RecordWriter interface {
	// InsertRecord appends a record and sets rec.ID.
	// A returned error rejects only this record; the batch stays usable.
	InsertRecord(ctx context.Context, rec *domain.Record) error
}

// RecordVisitor is called once per stored record. Returning an error stops
// the iteration and the error is returned to the caller.
type RecordVisitor func(rec domain.Record) error

// LabelFunc derives the stance labels for one record's stance sequence.
type LabelFunc func(seq domain.StanceSequence) domain.StanceLabels

// RecordStore persists enriched post records.
// Backed by SQLite for production use.
type RecordStore interface {
	// CreateSchema creates the records table if it does not exist.
	CreateSchema(ctx context.Context) error

	// AddColumns adds columns to the records table. Columns that already
	// exist are left alone. Returns the names actually added.
	AddColumns(ctx context.Context, cols []domain.Column) ([]string, error)

	// WithBatch runs fn with a writer scoped to one transaction. The batch
	// commits when fn returns nil and rolls back when it returns an error.
	WithBatch(ctx context.Context, fn func(w RecordWriter) error) error

	// ForEachRecord visits records in insertion order.
	ForEachRecord(ctx context.Context, visit RecordVisitor) error

	// Head returns the first n records in insertion order.
	Head(ctx context.Context, n int) ([]domain.Record, error)

	// ApplyLabels overwrites the derived labels of every record with
	// label(stance). All rows are updated in one transaction or none are.
	ApplyLabels(ctx context.Context, label LabelFunc) (domain.LabelSummary, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
}
