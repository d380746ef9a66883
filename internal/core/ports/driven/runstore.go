package driven

import (
	"context"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
)

// RunStore persists classifier run history.
type RunStore interface {
	// SaveRun records a finished run.
	SaveRun(ctx context.Context, run *domain.ClassificationRun) error

	// ListRuns returns recent runs, most recent first.
	// A limit of zero or less returns every run.
	ListRuns(ctx context.Context, limit int) ([]domain.ClassificationRun, error)
}
