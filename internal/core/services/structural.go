package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
	"github.com/custodia-labs/metaval/internal/logger"
)

const (
	// schemaOrgMarker identifies documents using plain schema.org terms.
	schemaOrgMarker = "://schema.org"

	// schemaOrgVariant names the schema copy with the property-name override.
	schemaOrgVariant = "schema.org"

	// lowerCamelCase is the property-name pattern for schema.org documents.
	lowerCamelCase = `^[a-z@$][a-zA-Z]*$`
)

// StructuralResult is the outcome of structural validation.
type StructuralResult struct {
	// Messages are the formatted error messages in schema-path order.
	Messages []string

	// Errors are the reported violations, in the same order.
	Errors []domain.ValidationError

	// Deleted lists the properties removed from the document.
	Deleted []string

	// Skipped counts violations on flagged properties that were not reported.
	Skipped int
}

// StructuralValidator validates documents against profile schemas and
// strips the properties that fail.
type StructuralValidator struct {
	validator driven.SchemaValidator
}

// NewStructuralValidator creates a structural validator.
func NewStructuralValidator(validator driven.SchemaValidator) *StructuralValidator {
	return &StructuralValidator{validator: validator}
}

// Validate checks doc against schema. Every violation except a missing
// required property deletes the offending top-level property from doc.
// Violations on flagged properties are skipped and the property is kept.
func (v *StructuralValidator) Validate(
	ctx context.Context,
	doc *domain.Object,
	schema *domain.Schema,
	flagged domain.PropertySet,
) (*StructuralResult, error) {
	if v.validator == nil {
		return nil, domain.ErrNotImplemented
	}
	if doc == nil || schema == nil {
		return nil, domain.ErrInvalidInput
	}

	effective := schema
	if usesSchemaOrg(doc) {
		effective = schema.WithOverride(schemaOrgVariant, map[string]any{
			"propertyNames": map[string]any{"pattern": lowerCamelCase},
		})
	}

	errs, err := v.validator.Validate(ctx, effective, doc.ToAny())
	if err != nil {
		return nil, fmt.Errorf("validating against %s: %w", schema.Ref, err)
	}
	SortValidationErrors(errs)

	logger.Section("Validator Message")
	result := &StructuralResult{Messages: []string{}, Deleted: []string{}}
	for _, e := range errs {
		if name := offendingProperty(e); name != "" && flagged.Has(name) {
			logger.Debug("Skipping %s error on flagged property %q", e.Keyword, name)
			result.Skipped++
			continue
		}

		msg := FormatValidationError(e)
		if e.Kind != domain.ErrorKindRequired {
			if prop, ok := schemaProperty(e); ok && doc.Delete(prop) {
				result.Deleted = append(result.Deleted, prop)
			}
			if e.Hint != "" {
				logger.Info("%s", e.Hint)
			}
		}
		logger.Error("%s", msg)
		result.Messages = append(result.Messages, msg)
		result.Errors = append(result.Errors, e)
	}

	if len(result.Messages) == 0 {
		logger.Success("The data is valid against this profile")
	} else if len(result.Deleted) > 0 {
		logger.Info("Existing property value(s) that has error: %s", strings.Join(result.Deleted, ", "))
	}
	return result, nil
}

// FormatValidationError renders a violation the way reports show it.
func FormatValidationError(e domain.ValidationError) string {
	if e.Kind == domain.ErrorKindRequired {
		return e.Message + " but it's missing."
	}
	switch e.Kind {
	case domain.ErrorKindAlternation:
		if prop, ok := schemaProperty(e); ok {
			return fmt.Sprintf("For property: %s, %s", prop, e.Message)
		}
	case domain.ErrorKindPattern:
		return "Property name: " + e.Message
	}
	return e.Message
}

// SortValidationErrors orders errors by schema path, then instance path,
// then message.
func SortValidationErrors(errs []domain.ValidationError) {
	sort.SliceStable(errs, func(i, j int) bool {
		if c := comparePaths(errs[i].SchemaPath, errs[j].SchemaPath); c != 0 {
			return c < 0
		}
		if c := comparePaths(errs[i].InstancePath, errs[j].InstancePath); c != 0 {
			return c < 0
		}
		return errs[i].Message < errs[j].Message
	})
}

func comparePaths(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// schemaProperty returns the property named by a "properties/<name>/..."
// schema path.
func schemaProperty(e domain.ValidationError) (string, bool) {
	if len(e.SchemaPath) >= 2 && e.SchemaPath[0] == "properties" {
		return e.SchemaPath[1], true
	}
	return "", false
}

// offendingProperty names the top-level property a violation is about.
func offendingProperty(e domain.ValidationError) string {
	if e.Property != "" {
		return e.Property
	}
	if prop, ok := schemaProperty(e); ok {
		return prop
	}
	if len(e.InstancePath) > 0 {
		return e.InstancePath[0]
	}
	return ""
}

// usesSchemaOrg reports whether @context is a single schema.org reference
// rather than an array of vocabularies.
func usesSchemaOrg(doc *domain.Object) bool {
	v, ok := doc.Get(contextKey)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case domain.Scalar:
		s, ok := t.Str()
		return ok && strings.Contains(s, schemaOrgMarker)
	case *domain.Object:
		for _, k := range t.Keys() {
			if strings.Contains(k, schemaOrgMarker) {
				return true
			}
		}
	}
	return false
}
