package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

// stubValidator checks "required" and string-typed "properties" only.
type stubValidator struct {
	mu      sync.Mutex
	calls   int
	schemas []*domain.Schema
	errs    []domain.ValidationError
	fail    error
}

func (v *stubValidator) Validate(_ context.Context, schema *domain.Schema, instance map[string]any) ([]domain.ValidationError, error) {
	v.mu.Lock()
	v.calls++
	v.schemas = append(v.schemas, schema)
	v.mu.Unlock()
	if v.fail != nil {
		return nil, v.fail
	}
	if v.errs != nil {
		return v.errs, nil
	}

	var out []domain.ValidationError
	if required, ok := schema.Raw["required"].([]any); ok {
		for _, r := range required {
			name := r.(string)
			if _, ok := instance[name]; !ok {
				out = append(out, domain.ValidationError{
					SchemaPath: []string{"required"},
					Keyword:    "required",
					Kind:       domain.ErrorKindRequired,
					Message:    fmt.Sprintf("'%s' is a required property", name),
					Property:   name,
				})
			}
		}
	}
	props, _ := schema.Raw["properties"].(map[string]any)
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rule, _ := props[name].(map[string]any)
		value, present := instance[name]
		if !present || rule["type"] != "string" {
			continue
		}
		if _, ok := value.(string); !ok {
			hint, _ := rule["validityCheck"].(string)
			out = append(out, domain.ValidationError{
				SchemaPath:   []string{"properties", name, "type"},
				InstancePath: []string{name},
				Keyword:      "type",
				Kind:         domain.ErrorKindOther,
				Message:      fmt.Sprintf("%v is not of type 'string'", value),
				Hint:         hint,
			})
		}
	}
	return out, nil
}

// isoParser accepts plain ISO dates.
type isoParser struct{}

func (isoParser) Parse(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func object(m map[string]any) *domain.Object {
	return domain.FromAny(m).(*domain.Object)
}

func datasetSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"name"},
		"properties": map[string]any{
			"name":        map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"url":         map[string]any{"type": "string", "validityCheck": "url should be a string"},
			"keywords":    map[string]any{"type": "string"},
			"license":     map[string]any{"type": "string"},
		},
	}
}

func datasetMarginality() domain.MarginalityList {
	return domain.MarginalityList{
		domain.LevelMinimum:     {"name", "description", "url"},
		domain.LevelRecommended: {"keywords", "license"},
	}
}
