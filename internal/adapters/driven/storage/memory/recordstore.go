package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
	"github.com/custodia-labs/stance-cli/internal/core/ports/driven"
)

// Ensure RecordStore implements the interfaces.
var (
	_ driven.RecordStore = (*RecordStore)(nil)
	_ driven.ReportStore = (*RecordStore)(nil)
)

// errNoSchema mirrors the SQLite error for a missing records table.
var errNoSchema = errors.New("no such table: records")

// RecordStore is an in-memory implementation of driven.RecordStore and
// driven.ReportStore. It mirrors the SQLite adapter's semantics closely
// enough for service tests.
type RecordStore struct {
	mu      sync.RWMutex
	schema  bool
	columns map[string]bool
	records []domain.Record
	nextID  int64
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		columns: make(map[string]bool),
		nextID:  1,
	}
}

// CreateSchema creates the records table if it does not exist.
func (s *RecordStore) CreateSchema(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schema = true
	return nil
}

// AddColumns adds columns that are not already present.
func (s *RecordStore) AddColumns(_ context.Context, cols []domain.Column) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.schema {
		return nil, errNoSchema
	}

	var added []string
	for _, c := range cols {
		if s.columns[c.Name] {
			continue
		}
		s.columns[c.Name] = true
		added = append(added, c.Name)
	}
	return added, nil
}

// batch buffers inserts until WithBatch commits.
type batch struct {
	store   *RecordStore
	pending []domain.Record
}

func (b *batch) InsertRecord(_ context.Context, rec *domain.Record) error {
	if rec == nil {
		return fmt.Errorf("inserting record: %w", domain.ErrInvalidInput)
	}
	rec.ID = b.store.nextID + int64(len(b.pending))
	stored := *rec
	stored.Labels = nil
	b.pending = append(b.pending, stored)
	return nil
}

// WithBatch runs fn and commits its inserts only if fn succeeds.
func (s *RecordStore) WithBatch(ctx context.Context, fn func(w driven.RecordWriter) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.schema {
		return errNoSchema
	}

	b := &batch{store: s}
	if err := fn(b); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.records = append(s.records, b.pending...)
	s.nextID += int64(len(b.pending))
	return nil
}

// ForEachRecord visits records in insertion order.
func (s *RecordStore) ForEachRecord(_ context.Context, visit driven.RecordVisitor) error {
	s.mu.RLock()
	records := s.snapshot()
	s.mu.RUnlock()

	for _, rec := range records {
		if err := visit(rec); err != nil {
			return err
		}
	}
	return nil
}

// Head returns the first n records.
func (s *RecordStore) Head(_ context.Context, n int) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.schema {
		return nil, errNoSchema
	}
	if n < 0 || n > len(s.records) {
		n = len(s.records)
	}
	return s.snapshot()[:n], nil
}

// ApplyLabels overwrites the labels of every record.
func (s *RecordStore) ApplyLabels(ctx context.Context, label driven.LabelFunc) (domain.LabelSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summary domain.LabelSummary
	if !s.schema {
		return summary, errNoSchema
	}
	for _, c := range domain.LabelColumns() {
		if !s.columns[c.Name] {
			return summary, fmt.Errorf("no such column: %s", c.Name)
		}
	}

	labels := make([]domain.StanceLabels, len(s.records))
	for i := range s.records {
		if err := ctx.Err(); err != nil {
			return domain.LabelSummary{}, err
		}
		labels[i] = label(s.records[i].Stance)
		summary.Add(labels[i])
	}
	for i := range s.records {
		l := labels[i]
		s.records[i].Labels = &l
	}
	return summary, nil
}

// Count returns the number of stored records.
func (s *RecordStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.schema {
		return 0, errNoSchema
	}
	return len(s.records), nil
}

// snapshot copies the records (caller must hold lock).
func (s *RecordStore) snapshot() []domain.Record {
	out := make([]domain.Record, len(s.records))
	for i, rec := range s.records {
		if rec.Labels != nil {
			l := *rec.Labels
			rec.Labels = &l
		}
		out[i] = rec
	}
	return out
}
