package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/normalisers"
)

func newProfileService() *ProfileService {
	return NewProfileService(newResolverStore(), normalisers.NewDefaultRegistry(), domain.DefaultAppSettings().Vocabulary)
}

func TestProfileService_List(t *testing.T) {
	summaries, err := newProfileService().List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "ComputationalTool", summaries[0].Name)
	assert.Equal(t, "0.6-DRAFT", summaries[0].Selected)
	assert.Equal(t, "Dataset", summaries[1].Name)
	assert.Equal(t, []string{"1.1-DRAFT", "1.0-RELEASE", "0.3-RELEASE-2019_06_14"}, summaries[1].Versions)
	assert.Equal(t, "1.0-RELEASE", summaries[1].Selected)
}

func TestProfileService_Get(t *testing.T) {
	svc := newProfileService()

	_, err := svc.Get(context.Background(), "Gene")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProfileService_ResolveRawStripsPrefix(t *testing.T) {
	ref, err := newProfileService().ResolveRaw(context.Background(), &domain.RawDocument{
		URI: "tool.jsonld",
		Content: []byte(`{
			"@context": [{"bsc": "https://bioschemas.org/"}],
			"@type": "bsc:ComputationalTool"
		}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "ComputationalTool", ref.Name)
	assert.Equal(t, domain.ResolutionTypeFallback, ref.Resolution)
}

func TestProfileService_NotConfigured(t *testing.T) {
	svc := NewProfileService(nil, nil, domain.VocabularySettings{})

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	_, err = svc.ResolveRaw(context.Background(), &domain.RawDocument{})
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	_, err = svc.Resolve(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
