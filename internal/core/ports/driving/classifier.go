package driving

import (
	"context"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
)

// ClassifierService derives stance labels for every stored record.
type ClassifierService interface {
	// Classify labels every record at domain.DefaultThreshold.
	Classify(ctx context.Context) (*domain.ClassificationRun, error)

	// ClassifyWithThreshold labels every record at threshold, which must
	// be within [0, 1].
	ClassifyWithThreshold(ctx context.Context, threshold float64) (*domain.ClassificationRun, error)

	// Runs returns recent classifier runs, most recent first.
	Runs(ctx context.Context, limit int) ([]domain.ClassificationRun, error)
}
