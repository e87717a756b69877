// Package jsonld parses JSON and JSON-LD metadata records into ordered
// documents, preserving key order and recovering from duplicate keys.
package jsonld

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
	"github.com/custodia-labs/metaval/internal/normalisers/keys"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles JSON-LD and plain JSON documents.
type Normaliser struct{}

// New creates a new JSON-LD normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{domain.MIMETypeJSONLD, domain.MIMETypeJSON}
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".jsonld", ".json"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 60
}

// Normalise parses a raw JSON document.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.NormalisedDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	c := keys.NewCollector()
	doc, err := Parse(raw.Content, c)
	if err != nil {
		return nil, err
	}
	return c.Result(doc), nil
}

// Parse decodes a JSON object, routing every key through c.
// Numbers are kept as json.Number.
func Parse(data []byte, c *keys.Collector) (*domain.Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, malformed(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object at the top level", domain.ErrMalformedDocument)
	}
	doc, err := readObject(dec, nil, c)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after the top-level object", domain.ErrMalformedDocument)
	}
	return doc, nil
}

// readObject reads members up to and including the closing brace.
func readObject(dec *json.Decoder, path []string, c *keys.Collector) (*domain.Object, error) {
	obj := domain.NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected a property name", domain.ErrMalformedDocument)
		}
		v, err := readValue(dec, childPath(path, keys.Clean(key)), c)
		if err != nil {
			return nil, err
		}
		c.Put(obj, path, key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, malformed(err)
	}
	return obj, nil
}

func readValue(dec *json.Decoder, path []string, c *keys.Collector) (domain.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, malformed(err)
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return domain.Scalar{V: tok}, nil
	}
	switch d {
	case '{':
		return readObject(dec, path, c)
	case '[':
		arr := domain.Array{}
		for dec.More() {
			v, err := readValue(dec, path, c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, malformed(err)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("%w: unexpected %q", domain.ErrMalformedDocument, d)
	}
}

func childPath(path []string, key string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, key)
}

func malformed(err error) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected end of input", domain.ErrMalformedDocument)
	}
	return fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
}
