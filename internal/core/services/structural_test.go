package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

func datasetSchemaRef() *domain.Schema {
	return &domain.Schema{
		Ref: domain.ProfileRef{Name: "Dataset", Version: "1.0-RELEASE"},
		Raw: datasetSchema(),
	}
}

func TestStructuralValidator_DeletesInvalidProperty(t *testing.T) {
	doc := object(map[string]any{
		"name":        "Genome assembly",
		"description": "An assembly",
		"url":         42,
		"keywords":    "genomics",
		"license":     "CC-BY",
	})
	v := NewStructuralValidator(&stubValidator{})

	result, err := v.Validate(context.Background(), doc, datasetSchemaRef(), nil)
	require.NoError(t, err)

	assert.Equal(t, 4, doc.Len())
	assert.False(t, doc.Has("url"))
	assert.Equal(t, []string{"url"}, result.Deleted)
	assert.Equal(t, []string{"42 is not of type 'string'"}, result.Messages)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "url should be a string", result.Errors[0].Hint)
}

func TestStructuralValidator_RequiredKeepsDocument(t *testing.T) {
	doc := object(map[string]any{"description": "no name"})
	v := NewStructuralValidator(&stubValidator{})

	result, err := v.Validate(context.Background(), doc, datasetSchemaRef(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, doc.Len())
	assert.Empty(t, result.Deleted)
	assert.Equal(t, []string{"'name' is a required property but it's missing."}, result.Messages)
}

func TestStructuralValidator_ValidDocument(t *testing.T) {
	doc := object(map[string]any{"name": "ok"})
	v := NewStructuralValidator(&stubValidator{})

	result, err := v.Validate(context.Background(), doc, datasetSchemaRef(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Messages)
	assert.NotNil(t, result.Messages)
}

func TestStructuralValidator_SkipsFlaggedProperties(t *testing.T) {
	doc := object(map[string]any{"name": "ok", "url": 42})
	v := NewStructuralValidator(&stubValidator{})

	result, err := v.Validate(context.Background(), doc, datasetSchemaRef(), domain.NewPropertySet("url"))
	require.NoError(t, err)
	assert.True(t, doc.Has("url"))
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Messages)
}

func TestStructuralValidator_SchemaOrgOverride(t *testing.T) {
	stub := &stubValidator{}
	v := NewStructuralValidator(stub)
	schema := datasetSchemaRef()

	doc := object(map[string]any{"@context": "https://schema.org", "name": "ok"})
	_, err := v.Validate(context.Background(), doc, schema, nil)
	require.NoError(t, err)

	require.Len(t, stub.schemas, 1)
	used := stub.schemas[0]
	assert.Equal(t, "schema.org", used.Variant)
	assert.Equal(t, map[string]any{"pattern": `^[a-z@$][a-zA-Z]*$`}, used.Raw["propertyNames"])
	assert.NotContains(t, schema.Raw, "propertyNames")

	doc = object(map[string]any{"@context": []any{"https://schema.org"}, "name": "ok"})
	_, err = v.Validate(context.Background(), doc, schema, nil)
	require.NoError(t, err)
	assert.Equal(t, "", stub.schemas[1].Variant)
}

func TestStructuralValidator_PatternAndAlternationMessages(t *testing.T) {
	stub := &stubValidator{errs: []domain.ValidationError{
		{
			SchemaPath: []string{"propertyNames", "pattern"},
			Kind:       domain.ErrorKindPattern,
			Message:    "'Bad_Key' does not match '^[a-z@$][a-zA-Z]*$'",
			Property:   "Bad_Key",
		},
		{
			SchemaPath: []string{"properties", "license", "anyOf"},
			Kind:       domain.ErrorKindAlternation,
			Message:    "3 is not valid under any of the given schemas",
		},
	}}
	doc := object(map[string]any{"name": "ok", "license": 3, "Bad_Key": "x"})

	result, err := NewStructuralValidator(stub).Validate(context.Background(), doc, datasetSchemaRef(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"For property: license, 3 is not valid under any of the given schemas",
		"Property name: 'Bad_Key' does not match '^[a-z@$][a-zA-Z]*$'",
	}, result.Messages)
	assert.Equal(t, []string{"license"}, result.Deleted)
	assert.True(t, doc.Has("Bad_Key"))
}

func TestStructuralValidator_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewStructuralValidator(nil).Validate(ctx, domain.NewObject(), datasetSchemaRef(), nil)
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	_, err = NewStructuralValidator(&stubValidator{}).Validate(ctx, nil, datasetSchemaRef(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	boom := errors.New("boom")
	_, err = NewStructuralValidator(&stubValidator{fail: boom}).Validate(ctx, domain.NewObject(), datasetSchemaRef(), nil)
	assert.ErrorIs(t, err, boom)
}

func TestSortValidationErrors(t *testing.T) {
	errs := []domain.ValidationError{
		{SchemaPath: []string{"required"}, Message: "b"},
		{SchemaPath: []string{"properties", "url"}, Message: "z"},
		{SchemaPath: []string{"properties"}, Message: "y"},
		{SchemaPath: []string{"required"}, Message: "a"},
	}
	SortValidationErrors(errs)

	got := make([]string, len(errs))
	for i, e := range errs {
		got[i] = e.Message
	}
	assert.Equal(t, []string{"y", "z", "a", "b"}, got)
}
