package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
)

// IngestService loads line-delimited JSON records into the record store.
type IngestService interface {
	// IngestFile loads every record in the file at path.
	// Malformed lines are skipped and reported in the result.
	IngestFile(ctx context.Context, path string) (*domain.IngestResult, error)

	// Ingest loads records from r. name labels the source in the result.
	Ingest(ctx context.Context, name string, r io.Reader) (*domain.IngestResult, error)

	// ReadLine decodes the n-th line (1-based) of the file at path without
	// storing it.
	ReadLine(ctx context.Context, path string, n int) (*domain.Record, error)
}
