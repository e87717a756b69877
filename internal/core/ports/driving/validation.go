package driving

import (
	"context"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

// ValidationService runs the validation pipeline.
type ValidationService interface {
	// Validate validates a parsed document. The document is mutated:
	// properties with structural errors are removed from it.
	Validate(ctx context.Context, doc *domain.Object, opts domain.ValidateOptions) (*domain.ValidationResult, error)

	// ValidateRaw parses and validates raw bytes.
	ValidateRaw(ctx context.Context, raw *domain.RawDocument, opts domain.ValidateOptions) (*domain.ValidationResult, error)

	// ValidateBatch validates independent documents concurrently.
	// Items are returned in input order, each with its own result or error.
	ValidateBatch(ctx context.Context, raws []domain.RawDocument, opts domain.ValidateOptions) ([]domain.BatchItem, error)
}

// ProfileService exposes the profile store and the resolver.
type ProfileService interface {
	// List returns every stored profile with its versions.
	List(ctx context.Context) ([]domain.ProfileSummary, error)

	// Get returns one profile.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, name string) (*domain.ProfileSummary, error)

	// Resolve determines the profile version a parsed document targets.
	Resolve(ctx context.Context, doc *domain.Object) (domain.ProfileRef, error)

	// ResolveRaw parses raw bytes and resolves their profile.
	ResolveRaw(ctx context.Context, raw *domain.RawDocument) (domain.ProfileRef, error)
}

// HistoryService reads recorded validation results.
type HistoryService interface {
	// List returns summaries, newest first. A limit of zero means no limit.
	List(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Get returns a full recorded result.
	Get(ctx context.Context, id string) (*domain.ValidationResult, error)

	// Delete removes a recorded result.
	Delete(ctx context.Context, id string) error
}
