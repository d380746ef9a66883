package driving

import "context"

// SchemaService creates and evolves the record store schema.
type SchemaService interface {
	// Init creates the records table if needed.
	Init(ctx context.Context) error

	// AddLabelColumns adds the derived-label columns. Running it again is
	// a no-op. Returns the columns actually added.
	AddLabelColumns(ctx context.Context) ([]string, error)
}
