package normalisers

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to the highest-priority normaliser
// supporting their MIME type.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a normaliser. Normalisers are kept sorted by priority.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers = append(r.normalisers, n)
	sort.SliceStable(r.normalisers, func(i, j int) bool {
		return r.normalisers[i].Priority() > r.normalisers[j].Priority()
	})
}

// Normalise parses raw with the best matching normaliser. When the MIME
// type is empty it is derived from the URI extension, then from the
// content itself.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.NormalisedDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	mimeType := raw.MIMEType
	if mimeType == "" {
		mimeType = r.MIMETypeFor(raw.URI)
	}
	if mimeType == "" {
		mimeType = sniff(raw.Content)
	}

	n := r.find(mimeType)
	if n == nil {
		return nil, fmt.Errorf("%w: no normaliser for %q", domain.ErrUnsupportedType, mimeType)
	}
	typed := *raw
	typed.MIMEType = mimeType
	return n.Normalise(ctx, &typed)
}

// SupportedMIMETypes returns all MIME types that can be normalised, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, n := range r.normalisers {
		for _, m := range n.SupportedMIMETypes() {
			if _, ok := seen[m]; !ok {
				seen[m] = struct{}{}
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out
}

// MIMETypeFor maps a file name to the first MIME type of the
// highest-priority normaliser claiming its extension.
func (r *Registry) MIMETypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return ""
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.normalisers {
		for _, e := range n.SupportedExtensions() {
			if e == ext && len(n.SupportedMIMETypes()) > 0 {
				return n.SupportedMIMETypes()[0]
			}
		}
	}
	return ""
}

func (r *Registry) find(mimeType string) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.normalisers {
		for _, m := range n.SupportedMIMETypes() {
			if m == mimeType {
				return n
			}
		}
	}
	return nil
}

// sniff guesses JSON-LD for content opening with a brace or bracket and
// YAML otherwise.
func sniff(content []byte) string {
	trimmed := bytes.TrimLeft(content, " \t\r\n\uFEFF")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return domain.MIMETypeJSONLD
	}
	return domain.MIMETypeYAML
}
