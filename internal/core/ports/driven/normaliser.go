package driven

import (
	"context"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

// Normaliser parses raw metadata bytes into an ordered document.
// Each normaliser handles specific MIME types (e.g., JSON-LD, YAML).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// SupportedExtensions returns file extensions (with dot) that map to
	// this normaliser's MIME types, e.g. ".jsonld".
	SupportedExtensions() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise parses a raw document. Recoverable problems are returned
	// as warnings; unparsable input fails with domain.ErrMalformedDocument.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.NormalisedDocument, error)
}
