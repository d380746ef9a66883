package driven

import (
	"context"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
)

// ReportStore runs read-only aggregate queries over stored records.
// Records with a NULL or empty group value are excluded unless noted.
type ReportStore interface {
	// DistinctCountries counts distinct non-null countries.
	DistinctCountries(ctx context.Context) (int, error)

	// CountByCountry counts records per country, largest first.
	CountByCountry(ctx context.Context) ([]domain.GroupCount, error)

	// AverageEntailmentByCountry averages the entailment of one hypothesis
	// per country, highest first. Unparseable scores are ignored.
	AverageEntailmentByCountry(ctx context.Context, h domain.Hypothesis) ([]domain.GroupAverage, error)

	// OutletProfiles averages every hypothesis per (channel, country),
	// ordered by record count descending.
	OutletProfiles(ctx context.Context) ([]domain.OutletProfile, error)

	// StanceDistribution sums the derived labels per group. Unlike the
	// other reports it includes an empty group for records without a value.
	StanceDistribution(ctx context.Context, q domain.StanceQuery) ([]domain.StanceDistribution, error)
}
