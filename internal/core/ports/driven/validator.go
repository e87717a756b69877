package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

// SchemaValidator validates an instance against a JSON Schema (Draft 7).
type SchemaValidator interface {
	// Validate returns every violation of schema by instance. The order of
	// the returned errors is unspecified. Returns domain.ErrSchemaInvalid
	// if the schema itself cannot be compiled.
	Validate(ctx context.Context, schema *domain.Schema, instance map[string]any) ([]domain.ValidationError, error)
}

// DateParser parses date strings in the many formats found in metadata.
type DateParser interface {
	// Parse returns the instant a string denotes, or an error when the
	// string is not a recognisable date.
	Parse(value string) (time.Time, error)
}

// ReportStore persists validation results.
type ReportStore interface {
	// Save stores a result. Results are keyed by their ID.
	Save(ctx context.Context, result *domain.ValidationResult) error

	// Get retrieves a result by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.ValidationResult, error)

	// List returns summaries, newest first. A limit of zero means no limit.
	List(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Delete removes a result.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}
