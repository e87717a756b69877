package normalisers

import (
	"github.com/custodia-labs/metaval/internal/normalisers/jsonld"
	"github.com/custodia-labs/metaval/internal/normalisers/yaml"
)

// RegisterDefaults registers all built-in normalisers with the registry.
// Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	r.Register(jsonld.New())
	r.Register(yaml.New())
}

// NewDefaultRegistry returns a registry with the built-in normalisers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
