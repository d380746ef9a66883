package driving

import (
	"context"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
)

// ReportService answers aggregate questions about the labelled store.
type ReportService interface {
	// DistinctCountries counts distinct countries.
	DistinctCountries(ctx context.Context) (int, error)

	// CountByCountry counts records per country.
	CountByCountry(ctx context.Context) ([]domain.GroupCount, error)

	// AverageEntailment averages one hypothesis per country. The hypothesis
	// may be a short key or the full statement.
	AverageEntailment(ctx context.Context, hypothesis string) ([]domain.GroupAverage, error)

	// OutletProfiles averages all hypotheses per outlet.
	OutletProfiles(ctx context.Context) ([]domain.OutletProfile, error)

	// StanceDistribution sums derived labels per group.
	StanceDistribution(ctx context.Context, q domain.StanceQuery) ([]domain.StanceDistribution, error)

	// Head returns the first n stored records.
	Head(ctx context.Context, n int) ([]domain.Record, error)
}
