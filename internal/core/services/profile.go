package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
	"github.com/custodia-labs/metaval/internal/core/ports/driving"
)

// Ensure ProfileService implements the interface.
var _ driving.ProfileService = (*ProfileService)(nil)

// ProfileService lists stored profiles and resolves documents to them.
type ProfileService struct {
	store    driven.ProfileStore
	registry driven.NormaliserRegistry
	resolver *ProfileResolver
	vocab    domain.VocabularySettings
}

// NewProfileService creates a new profile service.
func NewProfileService(
	store driven.ProfileStore,
	registry driven.NormaliserRegistry,
	vocab domain.VocabularySettings,
) *ProfileService {
	return &ProfileService{
		store:    store,
		registry: registry,
		resolver: NewProfileResolver(store, vocab),
		vocab:    vocab,
	}
}

// List returns every stored profile with its versions.
func (s *ProfileService) List(ctx context.Context) ([]domain.ProfileSummary, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	names, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	summaries := make([]domain.ProfileSummary, 0, len(names))
	for _, name := range names {
		summary, err := s.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// Get returns one profile with its versions, greatest first.
func (s *ProfileService) Get(ctx context.Context, name string) (*domain.ProfileSummary, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	names, err := s.store.ListVersions(ctx, name)
	if err != nil {
		return nil, err
	}
	versions := make([]domain.Version, len(names))
	for i, n := range names {
		versions[i] = domain.ParseVersion(n)
	}
	domain.SortVersions(versions)

	summary := &domain.ProfileSummary{Name: name, Versions: make([]string, len(versions))}
	for i, v := range versions {
		summary.Versions[i] = v.Raw
	}
	summary.Selected, _ = domain.SelectVersion(names)
	return summary, nil
}

// Resolve determines the profile version a parsed document targets.
// Vocabulary prefixes are stripped first, so doc is mutated.
func (s *ProfileService) Resolve(ctx context.Context, doc *domain.Object) (domain.ProfileRef, error) {
	if doc == nil {
		return domain.ProfileRef{}, domain.ErrInvalidInput
	}
	StripPredicate(doc, VendorPredicate(doc, s.vocab.VendorDomains))
	return s.resolver.Resolve(ctx, doc)
}

// ResolveRaw parses raw bytes and resolves their profile.
func (s *ProfileService) ResolveRaw(ctx context.Context, raw *domain.RawDocument) (domain.ProfileRef, error) {
	if s.registry == nil {
		return domain.ProfileRef{}, domain.ErrNotImplemented
	}
	if raw == nil {
		return domain.ProfileRef{}, domain.ErrInvalidInput
	}
	nd, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return domain.ProfileRef{}, fmt.Errorf("parsing %s: %w", raw.URI, err)
	}
	return s.Resolve(ctx, nd.Document)
}
