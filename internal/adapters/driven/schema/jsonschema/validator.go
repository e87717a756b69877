// Package jsonschema validates documents against profile schemas with
// santhosh-tekuri/jsonschema and maps its error tree onto
// domain.ValidationError values.
package jsonschema

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-openapi/jsonpointer"
	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
	"github.com/custodia-labs/metaval/internal/logger"
)

// Ensure Validator implements the interface.
var _ driven.SchemaValidator = (*Validator)(nil)

// hintKeyword is the annotation profile schemas use to explain a rule.
const hintKeyword = "validityCheck"

// Validator compiles schemas once per cache key and validates instances.
type Validator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// New creates a validator with an empty compile cache.
func New() *Validator {
	return &Validator{compiled: make(map[string]*jsonschema.Schema)}
}

// Validate returns every violation of schema by instance. A schema that
// does not compile is reported as domain.ErrSchemaInvalid.
func (v *Validator) Validate(
	ctx context.Context,
	schema *domain.Schema,
	instance map[string]any,
) ([]domain.ValidationError, error) {
	if schema == nil || schema.Raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compiled, err := v.compile(schema)
	if err != nil {
		return nil, err
	}

	// The library validates numbers as json.Number, so the instance is
	// re-decoded whatever numeric types the caller used.
	data, err := json.Marshal(instance)
	if err != nil {
		return nil, fmt.Errorf("encoding instance: %w", err)
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding instance: %w", err)
	}

	err = compiled.Validate(doc)
	if err == nil {
		return nil, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, fmt.Errorf("validating: %w", err)
	}

	m := &mapper{raw: schema.Raw, instance: doc, seen: make(map[string]bool)}
	m.walk(verr)
	return m.out, nil
}

// Invalidate drops the compiled schemas whose cache key starts with prefix.
// An empty prefix clears the cache.
func (v *Validator) Invalidate(prefix string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for key := range v.compiled {
		if strings.HasPrefix(key, prefix) {
			delete(v.compiled, key)
		}
	}
}

func (v *Validator) compile(schema *domain.Schema) (*jsonschema.Schema, error) {
	key := schema.CacheKey()

	v.mu.RLock()
	compiled, ok := v.compiled[key]
	v.mu.RUnlock()
	if ok {
		return compiled, nil
	}

	data, err := json.Marshal(schema.Raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSchemaInvalid, schema.Ref, err)
	}
	resource := "file:///metaval/" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String() + ".json"

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7
	if err := c.AddResource(resource, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSchemaInvalid, schema.Ref, err)
	}
	compiled, err = c.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSchemaInvalid, schema.Ref, err)
	}
	logger.Debug("Compiled schema %s", key)

	v.mu.Lock()
	v.compiled[key] = compiled
	v.mu.Unlock()
	return compiled, nil
}

// mapper flattens one validation error tree.
type mapper struct {
	raw      map[string]any
	instance any
	seen     map[string]bool
	out      []domain.ValidationError
}

func (m *mapper) walk(e *jsonschema.ValidationError) {
	schemaPath := splitPointer(e.KeywordLocation)
	keyword := last(schemaPath)

	switch {
	case keyword == "anyOf" || keyword == "oneOf":
		m.alternation(e, schemaPath)
		return
	case keyword == "required":
		m.required(e, schemaPath)
		return
	case contains(schemaPath, "propertyNames"):
		if m.propertyNames(e, schemaPath) {
			return
		}
	case keyword == "pattern" && len(e.Causes) == 0:
		m.pattern(e, schemaPath)
		return
	}

	if len(e.Causes) > 0 {
		for _, cause := range e.Causes {
			m.walk(cause)
		}
		return
	}
	m.add(domain.ValidationError{
		SchemaPath:   schemaPath,
		InstancePath: splitPointer(e.InstanceLocation),
		Keyword:      keyword,
		Kind:         kindOf(keyword),
		Message:      e.Message,
		Hint:         m.hint(e),
	})
}

func (m *mapper) alternation(e *jsonschema.ValidationError, schemaPath []string) {
	value := m.instanceAt(e.InstanceLocation)
	data, err := json.Marshal(value)
	if err != nil {
		data = []byte(fmt.Sprint(value))
	}
	m.add(domain.ValidationError{
		SchemaPath:   schemaPath,
		InstancePath: splitPointer(e.InstanceLocation),
		Keyword:      last(schemaPath),
		Kind:         domain.ErrorKindAlternation,
		Message:      fmt.Sprintf("%s is not valid under any of the given schemas", data),
		Hint:         m.hint(e),
	})
}

var quoted = regexp.MustCompile(`'([^']*)'`)

// required emits one error per missing property.
func (m *mapper) required(e *jsonschema.ValidationError, schemaPath []string) {
	var missing []string
	obj, _ := m.instanceAt(e.InstanceLocation).(map[string]any)
	if list, ok := m.rawAt(fragment(e.AbsoluteKeywordLocation)).([]any); ok && obj != nil {
		for _, item := range list {
			if name, ok := item.(string); ok {
				if _, present := obj[name]; !present {
					missing = append(missing, name)
				}
			}
		}
	} else {
		for _, match := range quoted.FindAllStringSubmatch(e.Message, -1) {
			missing = append(missing, match[1])
		}
	}

	for _, name := range missing {
		m.add(domain.ValidationError{
			SchemaPath:   schemaPath,
			InstancePath: splitPointer(e.InstanceLocation),
			Keyword:      "required",
			Kind:         domain.ErrorKindRequired,
			Message:      fmt.Sprintf("'%s' is a required property", name),
			Property:     name,
		})
	}
}

// propertyNames emits one error per key failing the property-name
// pattern. Returns false when the rule is not a plain pattern.
func (m *mapper) propertyNames(e *jsonschema.ValidationError, schemaPath []string) bool {
	idx := indexOf(schemaPath, "propertyNames")
	rulePath := schemaPath[:idx+1]

	absRule := splitPointer(fragment(e.AbsoluteKeywordLocation))
	if i := indexOf(absRule, "propertyNames"); i >= 0 {
		absRule = absRule[:i+1]
	} else {
		absRule = rulePath
	}
	pattern, ok := m.rawAt(joinPointer(append(append([]string{}, absRule...), "pattern"))).(string)
	if !ok {
		return false
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}

	instancePath := splitPointer(e.InstanceLocation)
	obj, ok := m.instanceAt(e.InstanceLocation).(map[string]any)
	if !ok && len(instancePath) > 0 {
		instancePath = instancePath[:len(instancePath)-1]
		obj, ok = m.instanceAt(joinPointer(instancePath)).(map[string]any)
	}
	if !ok {
		return false
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		if !re.MatchString(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.add(domain.ValidationError{
			SchemaPath:   append(append([]string{}, rulePath...), "pattern"),
			InstancePath: instancePath,
			Keyword:      "pattern",
			Kind:         domain.ErrorKindPattern,
			Message:      fmt.Sprintf("'%s' does not match '%s'", k, pattern),
			Property:     k,
		})
	}
	return true
}

// pattern names the offending value, as the propertyNames branch names the
// offending key.
func (m *mapper) pattern(e *jsonschema.ValidationError, schemaPath []string) {
	message := e.Message
	pattern, ok := m.rawAt(fragment(e.AbsoluteKeywordLocation)).(string)
	if value, isString := m.instanceAt(e.InstanceLocation).(string); ok && isString {
		message = fmt.Sprintf("'%s' does not match '%s'", value, pattern)
	}
	m.add(domain.ValidationError{
		SchemaPath:   schemaPath,
		InstancePath: splitPointer(e.InstanceLocation),
		Keyword:      "pattern",
		Kind:         domain.ErrorKindPattern,
		Message:      message,
		Hint:         m.hint(e),
	})
}

func (m *mapper) add(e domain.ValidationError) {
	key := strings.Join(e.SchemaPath, "/") + "|" + strings.Join(e.InstancePath, "/") + "|" + e.Property + "|" + e.Message
	if m.seen[key] {
		return
	}
	m.seen[key] = true
	m.out = append(m.out, e)
}

// hint returns the validityCheck annotation of the subschema owning the
// failing keyword. Annotations on enclosing schemas do not apply.
func (m *mapper) hint(e *jsonschema.ValidationError) string {
	path := splitPointer(fragment(e.AbsoluteKeywordLocation))
	if len(path) == 0 {
		return ""
	}
	owner := append(append([]string{}, path[:len(path)-1]...), hintKeyword)
	s, _ := m.rawAt(joinPointer(owner)).(string)
	return s
}

func (m *mapper) rawAt(pointer string) any {
	return lookup(m.raw, pointer)
}

func (m *mapper) instanceAt(pointer string) any {
	return lookup(m.instance, pointer)
}

func lookup(doc any, pointer string) any {
	if pointer == "" {
		return doc
	}
	p, err := jsonpointer.New(pointer)
	if err != nil {
		return nil
	}
	v, _, err := p.Get(doc)
	if err != nil {
		return nil
	}
	return v
}

// fragment returns the JSON pointer part of an absolute keyword location.
func fragment(location string) string {
	i := strings.IndexByte(location, '#')
	if i < 0 {
		return ""
	}
	frag := location[i+1:]
	if unescaped, err := url.PathUnescape(frag); err == nil {
		frag = unescaped
	}
	return frag
}

func splitPointer(pointer string) []string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return nil
	}
	parts := strings.Split(pointer, "/")
	for i, p := range parts {
		parts[i] = jsonpointer.Unescape(p)
	}
	return parts
}

func joinPointer(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = jsonpointer.Escape(p)
	}
	return "/" + strings.Join(escaped, "/")
}

func kindOf(keyword string) domain.ErrorKind {
	switch keyword {
	case "required":
		return domain.ErrorKindRequired
	case "anyOf", "oneOf":
		return domain.ErrorKindAlternation
	case "pattern":
		return domain.ErrorKindPattern
	}
	return domain.ErrorKindOther
}

func last(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

func contains(parts []string, s string) bool {
	return indexOf(parts, s) >= 0
}

func indexOf(parts []string, s string) int {
	for i, p := range parts {
		if p == s {
			return i
		}
	}
	return -1
}
