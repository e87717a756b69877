// Package yaml parses YAML metadata records into ordered documents.
// Scalars are mapped to their JSON equivalents so YAML and JSON-LD
// records validate identically.
package yaml

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
	"github.com/custodia-labs/metaval/internal/normalisers/keys"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles YAML documents.
type Normaliser struct{}

// New creates a new YAML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{domain.MIMETypeYAML, "application/x-yaml", "text/yaml"}
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".yaml", ".yml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 55
}

// Normalise parses a raw YAML document.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.NormalisedDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	var root yaml.Node
	if err := yaml.Unmarshal(raw.Content, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty YAML document", domain.ErrMalformedDocument)
	}
	top := resolveAlias(root.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping at the top level", domain.ErrMalformedDocument)
	}

	c := keys.NewCollector()
	doc, err := convertMapping(top, nil, c)
	if err != nil {
		return nil, err
	}
	return c.Result(doc), nil
}

func convertMapping(n *yaml.Node, path []string, c *keys.Collector) (*domain.Object, error) {
	obj := domain.NewObject()
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := resolveAlias(n.Content[i])
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: line %d: property names must be scalars", domain.ErrMalformedDocument, k.Line)
		}
		v, err := convert(n.Content[i+1], childPath(path, keys.Clean(k.Value)), c)
		if err != nil {
			return nil, err
		}
		c.Put(obj, path, k.Value, v)
	}
	return obj, nil
}

func convert(n *yaml.Node, path []string, c *keys.Collector) (domain.Value, error) {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.MappingNode:
		return convertMapping(n, path, c)
	case yaml.SequenceNode:
		arr := make(domain.Array, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := convert(item, path, c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return convertScalar(n)
	default:
		return nil, fmt.Errorf("%w: line %d: unsupported YAML node", domain.ErrMalformedDocument, n.Line)
	}
}

// convertScalar maps YAML scalars onto the values encoding/json produces.
// Numbers become json.Number in canonical decimal form; timestamps stay
// strings so date checks see the original text.
func convertScalar(n *yaml.Node) (domain.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return domain.Scalar{V: nil}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrMalformedDocument, n.Line, err)
		}
		return domain.Scalar{V: b}, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			// too large for int64; keep the literal
			return domain.Scalar{V: json.Number(n.Value)}, nil
		}
		return domain.Scalar{V: json.Number(strconv.FormatInt(i, 10))}, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrMalformedDocument, n.Line, err)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return domain.Scalar{V: n.Value}, nil
		}
		return domain.Scalar{V: json.Number(strconv.FormatFloat(f, 'g', -1, 64))}, nil
	default:
		return domain.Scalar{V: n.Value}, nil
	}
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func childPath(path []string, key string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, key)
}
