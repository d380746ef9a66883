package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
	"github.com/custodia-labs/stance-cli/internal/core/ports/driven"
	"github.com/custodia-labs/stance-cli/internal/core/ports/driving"
	"github.com/custodia-labs/stance-cli/internal/logger"
)

// Ensure SchemaService implements the interface.
var _ driving.SchemaService = (*SchemaService)(nil)

// SchemaService creates and evolves the records table.
type SchemaService struct {
	recordStore driven.RecordStore
}

// NewSchemaService creates a new schema service.
func NewSchemaService(recordStore driven.RecordStore) *SchemaService {
	return &SchemaService{recordStore: recordStore}
}

// Init creates the records table if needed.
func (s *SchemaService) Init(ctx context.Context) error {
	if s.recordStore == nil {
		return domain.ErrStoreUnavailable
	}
	if err := s.recordStore.CreateSchema(ctx); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	logger.Info("Records table ready")
	return nil
}

// AddLabelColumns adds pro_russia, pro_ukraine and unsure if missing.
func (s *SchemaService) AddLabelColumns(ctx context.Context) ([]string, error) {
	if s.recordStore == nil {
		return nil, domain.ErrStoreUnavailable
	}

	added, err := s.recordStore.AddColumns(ctx, domain.LabelColumns())
	if err != nil {
		return nil, fmt.Errorf("add label columns: %w", err)
	}

	isNew := make(map[string]bool, len(added))
	for _, name := range added {
		isNew[name] = true
		logger.Info("Added column %s", name)
	}
	for _, c := range domain.LabelColumns() {
		if !isNew[c.Name] {
			logger.Debug("Column %s already exists", c.Name)
		}
	}
	return added, nil
}
