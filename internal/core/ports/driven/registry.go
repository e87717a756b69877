package driven

import (
	"context"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

// NormaliserRegistry selects the appropriate normaliser for a document.
// It maintains a priority-ordered list of normalisers and dispatches
// based on MIME type.
type NormaliserRegistry interface {
	// Normalise parses a raw document using the best matching normaliser.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.NormalisedDocument, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedMIMETypes returns all MIME types that can be normalised.
	SupportedMIMETypes() []string

	// MIMETypeFor maps a file name to a supported MIME type by extension.
	// Returns "" when no normaliser claims the extension.
	MIMETypeFor(filename string) string
}
