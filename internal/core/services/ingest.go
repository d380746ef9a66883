package services

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
	"github.com/custodia-labs/stance-cli/internal/core/ports/driven"
	"github.com/custodia-labs/stance-cli/internal/core/ports/driving"
	"github.com/custodia-labs/stance-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService loads line-delimited JSON into the record store.
type IngestService struct {
	recordStore driven.RecordStore
	decoder     driven.RecordDecoder
}

// NewIngestService creates a new ingest service.
func NewIngestService(recordStore driven.RecordStore, decoder driven.RecordDecoder) *IngestService {
	return &IngestService{
		recordStore: recordStore,
		decoder:     decoder,
	}
}

// IngestFile loads every record in the file at path.
func (s *IngestService) IngestFile(ctx context.Context, path string) (*domain.IngestResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return s.Ingest(ctx, path, f)
}

// Ingest loads records from r in a single batch. Malformed lines and rows
// the store rejects are logged with their line number and counted; every
// other row is committed together.
func (s *IngestService) Ingest(ctx context.Context, name string, r io.Reader) (*domain.IngestResult, error) {
	if s.recordStore == nil {
		return nil, domain.ErrStoreUnavailable
	}

	logger.Section("Ingest " + name)

	var result domain.IngestResult
	err := s.recordStore.WithBatch(ctx, func(w driven.RecordWriter) error {
		result = domain.IngestResult{Source: name}
		return s.decoder.Decode(ctx, r, func(line int, rec *domain.Record, decodeErr error) error {
			result.Lines++

			if decodeErr != nil {
				result.Skipped++
				s.report(&result, line, decodeErr)
				return nil
			}

			if err := w.InsertRecord(ctx, rec); err != nil {
				result.Failed++
				s.report(&result, line, err)
				return nil
			}

			result.Loaded++
			logger.Debug("line %d: stored record %d (tweet %s)", line, rec.ID, rec.TweetID)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", name, err)
	}

	stored, err := s.recordStore.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	result.Stored = stored

	logger.Info("Loaded %d of %d lines from %s (%d skipped, %d failed, %d stored)",
		result.Loaded, result.Lines, name, result.Skipped, result.Failed, result.Stored)
	return &result, nil
}

func (s *IngestService) report(result *domain.IngestResult, line int, err error) {
	lineErr := domain.LineError{Line: line, Err: err.Error()}
	result.Errors = append(result.Errors, lineErr)
	logger.Error("%s: %s", result.Source, lineErr)
}

// ReadLine decodes the n-th line of the file at path without storing it.
func (s *IngestService) ReadLine(ctx context.Context, path string, n int) (*domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rec, err := s.decoder.DecodeLine(ctx, f, n)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rec, nil
}
