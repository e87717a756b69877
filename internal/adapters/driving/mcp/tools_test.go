package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

func TestServer_handleValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the validation result", func(t *testing.T) {
		mockValidation := &mockValidationService{result: validResult()}
		server, err := NewServer(&Ports{Validation: mockValidation})
		require.NoError(t, err)

		input := ValidateInput{Document: `{"@type": "Dataset", "name": "x"}`, Record: true}
		_, output, err := server.handleValidate(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "res-1", output.ID)
		assert.Equal(t, "Dataset", output.Profile)
		assert.Equal(t, "1.0-RELEASE", output.Version)
		assert.Equal(t, "conformance", output.Resolution)
		assert.True(t, output.Valid)
		assert.False(t, output.Degraded)
		assert.Equal(t, []string{}, output.ErrorMessages)
		require.NotNil(t, output.Report)
		assert.Equal(t, []string{"name"}, output.Report.Minimum.Implemented)

		assert.True(t, mockValidation.lastOpts.Record)
		assert.Empty(t, mockValidation.lastRaw.MIMEType)
	})

	t.Run("degraded result has no report", func(t *testing.T) {
		result := validResult()
		result.Report = nil
		result.ErrorMessages = []string{"For property: name\nis a required property"}
		server, err := NewServer(&Ports{Validation: &mockValidationService{result: result}})
		require.NoError(t, err)

		_, output, err := server.handleValidate(ctx, nil, ValidateInput{Document: "name: x"})

		require.NoError(t, err)
		assert.False(t, output.Valid)
		assert.True(t, output.Degraded)
		assert.Nil(t, output.Report)
		assert.Len(t, output.ErrorMessages, 1)
	})

	t.Run("format selects the MIME type", func(t *testing.T) {
		mockValidation := &mockValidationService{result: validResult()}
		server, err := NewServer(&Ports{Validation: mockValidation})
		require.NoError(t, err)

		_, _, err = server.handleValidate(ctx, nil, ValidateInput{Document: "name: x", Format: "YAML"})
		require.NoError(t, err)
		assert.Equal(t, domain.MIMETypeYAML, mockValidation.lastRaw.MIMEType)

		_, _, err = server.handleValidate(ctx, nil, ValidateInput{Document: "{}", Format: "jsonld"})
		require.NoError(t, err)
		assert.Equal(t, domain.MIMETypeJSONLD, mockValidation.lastRaw.MIMEType)
	})

	t.Run("schema path is passed through", func(t *testing.T) {
		mockValidation := &mockValidationService{result: validResult()}
		server, err := NewServer(&Ports{Validation: mockValidation})
		require.NoError(t, err)

		_, _, err = server.handleValidate(ctx, nil, ValidateInput{Document: "{}", SchemaPath: "/tmp/Dataset/1.0.json"})
		require.NoError(t, err)
		assert.Equal(t, "/tmp/Dataset/1.0.json", mockValidation.lastOpts.SchemaPath)
	})

	t.Run("rejects empty documents and unknown formats", func(t *testing.T) {
		server, err := NewServer(&Ports{Validation: &mockValidationService{}})
		require.NoError(t, err)

		_, _, err = server.handleValidate(ctx, nil, ValidateInput{Document: "  "})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, _, err = server.handleValidate(ctx, nil, ValidateInput{Document: "{}", Format: "xml"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("returns error on validation failure", func(t *testing.T) {
		notFound := &domain.ProfileNotFoundError{Tried: []string{"Widget"}}
		server, err := NewServer(&Ports{Validation: &mockValidationService{err: notFound}})
		require.NoError(t, err)

		_, _, err = server.handleValidate(ctx, nil, ValidateInput{Document: "{}"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})
}

func TestServer_handleResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the resolved profile", func(t *testing.T) {
		mockProfile := &mockProfileService{
			ref: domain.ProfileRef{
				Name:       "Dataset",
				Version:    "1.0-RELEASE",
				Resolution: domain.ResolutionClaimFallback,
				Claim:      &domain.ProfileClaim{Name: "Dataset", Version: "9.9"},
			},
		}
		server, err := NewServer(&Ports{Validation: &mockValidationService{}, Profile: mockProfile})
		require.NoError(t, err)

		_, output, err := server.handleResolve(ctx, nil, ResolveInput{Document: "{}"})

		require.NoError(t, err)
		assert.Equal(t, "Dataset", output.Name)
		assert.Equal(t, "1.0-RELEASE", output.Version)
		assert.Equal(t, "claim_fallback", output.Resolution)
		assert.Equal(t, "9.9", output.ClaimVersion)
	})

	t.Run("nil profile service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Validation: &mockValidationService{}})
		require.NoError(t, err)

		_, _, err = server.handleResolve(ctx, nil, ResolveInput{Document: "{}"})
		assert.ErrorIs(t, err, ErrMissingProfileService)
	})

	t.Run("returns error on resolve failure", func(t *testing.T) {
		mockProfile := &mockProfileService{err: errors.New("store unavailable")}
		server, err := NewServer(&Ports{Validation: &mockValidationService{}, Profile: mockProfile})
		require.NoError(t, err)

		_, _, err = server.handleResolve(ctx, nil, ResolveInput{Document: "{}"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "store unavailable")
	})
}
