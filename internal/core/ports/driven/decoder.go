package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
)

// LineFunc receives each non-blank source line. Exactly one of rec and err
// is non-nil: err reports a malformed line that was not decoded.
// Returning an error stops decoding.
type LineFunc func(line int, rec *domain.Record, err error) error

// RecordDecoder turns a line-delimited source into records.
type RecordDecoder interface {
	// Decode reads r to the end, calling fn for every non-blank line with
	// its 1-based physical line number.
	Decode(ctx context.Context, r io.Reader, fn LineFunc) error

	// DecodeLine decodes the n-th physical line of r.
	// Returns domain.ErrNotFound when r has fewer lines.
	DecodeLine(ctx context.Context, r io.Reader, n int) (*domain.Record, error)
}
