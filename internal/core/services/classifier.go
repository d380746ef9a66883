package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
	"github.com/custodia-labs/stance-cli/internal/core/ports/driven"
	"github.com/custodia-labs/stance-cli/internal/core/ports/driving"
	"github.com/custodia-labs/stance-cli/internal/logger"
)

// Ensure ClassifierService implements the interface.
var _ driving.ClassifierService = (*ClassifierService)(nil)

// ClassifierService derives stance labels for every stored record.
type ClassifierService struct {
	recordStore driven.RecordStore
	runStore    driven.RunStore
	now         func() time.Time
}

// NewClassifierService creates a new classifier service.
// runStore is optional - if nil, run history is not recorded.
func NewClassifierService(recordStore driven.RecordStore, runStore driven.RunStore) *ClassifierService {
	return &ClassifierService{
		recordStore: recordStore,
		runStore:    runStore,
		now:         time.Now,
	}
}

// Classify labels every record at domain.DefaultThreshold.
func (s *ClassifierService) Classify(ctx context.Context) (*domain.ClassificationRun, error) {
	return s.ClassifyWithThreshold(ctx, domain.DefaultThreshold)
}

// ClassifyWithThreshold ensures the label columns exist, then recomputes
// every record's labels in one transaction. Thresholds outside [0, 1] are
// rejected before anything is written.
func (s *ClassifierService) ClassifyWithThreshold(
	ctx context.Context,
	threshold float64,
) (*domain.ClassificationRun, error) {
	if err := domain.ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	if s.recordStore == nil {
		return nil, domain.ErrStoreUnavailable
	}

	run := &domain.ClassificationRun{
		ID:        uuid.New().String(),
		Threshold: threshold,
		StartedAt: s.now(),
	}

	logger.Section("Classify")
	logger.Info("Run %s at threshold %g", run.ID, threshold)

	added, err := s.recordStore.AddColumns(ctx, domain.LabelColumns())
	if err != nil {
		return s.fail(ctx, run, fmt.Errorf("add label columns: %w", err))
	}
	for _, name := range added {
		logger.Debug("Added column %s", name)
	}

	summary, err := s.recordStore.ApplyLabels(ctx, domain.Classifier(threshold))
	if err != nil {
		return s.fail(ctx, run, fmt.Errorf("apply labels: %w", err))
	}

	run.Summary = summary
	run.Success = true
	run.EndedAt = s.now()
	s.record(ctx, run)

	logger.Info("Labelled %d records: %d pro_russia, %d pro_ukraine, %d unsure",
		summary.Records, summary.ProRussia, summary.ProUkraine, summary.Unsure)
	return run, nil
}

// fail records a failed run and returns err.
func (s *ClassifierService) fail(
	ctx context.Context,
	run *domain.ClassificationRun,
	err error,
) (*domain.ClassificationRun, error) {
	run.EndedAt = s.now()
	run.Error = err.Error()
	s.record(ctx, run)
	return run, err
}

// record saves run history. The labels are already committed, so a failed
// save is only logged.
func (s *ClassifierService) record(ctx context.Context, run *domain.ClassificationRun) {
	if s.runStore == nil {
		return
	}
	if err := s.runStore.SaveRun(ctx, run); err != nil {
		logger.Warn("Failed to record run %s: %v", run.ID, err)
	}
}

// Runs returns recent classifier runs, most recent first.
func (s *ClassifierService) Runs(ctx context.Context, limit int) ([]domain.ClassificationRun, error) {
	if s.runStore == nil {
		return nil, nil
	}
	runs, err := s.runStore.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}
