package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
	"github.com/custodia-labs/stance-cli/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs []domain.ClassificationRun
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{}
}

// SaveRun records a finished run, replacing any run with the same ID.
func (s *RunStore) SaveRun(_ context.Context, run *domain.ClassificationRun) error {
	if run == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.runs {
		if s.runs[i].ID == run.ID {
			s.runs[i] = *run
			return nil
		}
	}
	s.runs = append(s.runs, *run)
	return nil
}

// ListRuns returns recent runs, most recent first.
func (s *RunStore) ListRuns(_ context.Context, limit int) ([]domain.ClassificationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ClassificationRun, len(s.runs))
	copy(out, s.runs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
