package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
	"github.com/custodia-labs/stance-cli/internal/core/ports/driven"
	"github.com/custodia-labs/stance-cli/internal/core/ports/driving"
)

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// ReportService answers aggregate questions about stored records.
type ReportService struct {
	recordStore driven.RecordStore
	reportStore driven.ReportStore
}

// NewReportService creates a new report service.
func NewReportService(recordStore driven.RecordStore, reportStore driven.ReportStore) *ReportService {
	return &ReportService{
		recordStore: recordStore,
		reportStore: reportStore,
	}
}

// DistinctCountries counts distinct countries.
func (s *ReportService) DistinctCountries(ctx context.Context) (int, error) {
	if s.reportStore == nil {
		return 0, domain.ErrStoreUnavailable
	}
	n, err := s.reportStore.DistinctCountries(ctx)
	if err != nil {
		return 0, fmt.Errorf("distinct countries: %w", err)
	}
	return n, nil
}

// CountByCountry counts records per country.
func (s *ReportService) CountByCountry(ctx context.Context) ([]domain.GroupCount, error) {
	if s.reportStore == nil {
		return nil, domain.ErrStoreUnavailable
	}
	counts, err := s.reportStore.CountByCountry(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by country: %w", err)
	}
	return counts, nil
}

// AverageEntailment averages one hypothesis per country.
func (s *ReportService) AverageEntailment(ctx context.Context, hypothesis string) ([]domain.GroupAverage, error) {
	if s.reportStore == nil {
		return nil, domain.ErrStoreUnavailable
	}
	h, err := domain.ParseHypothesis(hypothesis)
	if err != nil {
		return nil, err
	}
	avgs, err := s.reportStore.AverageEntailmentByCountry(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("average entailment: %w", err)
	}
	return avgs, nil
}

// OutletProfiles averages all hypotheses per outlet.
func (s *ReportService) OutletProfiles(ctx context.Context) ([]domain.OutletProfile, error) {
	if s.reportStore == nil {
		return nil, domain.ErrStoreUnavailable
	}
	profiles, err := s.reportStore.OutletProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("outlet profiles: %w", err)
	}
	return profiles, nil
}

// StanceDistribution sums derived labels per group. An empty grouping
// means country.
func (s *ReportService) StanceDistribution(
	ctx context.Context,
	q domain.StanceQuery,
) ([]domain.StanceDistribution, error) {
	if s.reportStore == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if q.GroupBy == "" {
		q.GroupBy = domain.GroupByCountry
	}
	g, err := domain.ParseGrouping(string(q.GroupBy))
	if err != nil {
		return nil, err
	}
	q.GroupBy = g

	dist, err := s.reportStore.StanceDistribution(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("stance distribution: %w", err)
	}
	return dist, nil
}

// Head returns the first n stored records.
func (s *ReportService) Head(ctx context.Context, n int) ([]domain.Record, error) {
	if s.recordStore == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: record count must be positive, got %d", domain.ErrInvalidInput, n)
	}
	records, err := s.recordStore.Head(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("head: %w", err)
	}
	return records, nil
}
