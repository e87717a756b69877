package memory

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
)

// Ensure ProfileStore implements the interface.
var _ driven.ProfileStore = (*ProfileStore)(nil)

type profileVersion struct {
	schema map[string]any
	list   domain.MarginalityList
}

// ProfileStore is an in-memory implementation of driven.ProfileStore.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]map[string]profileVersion
}

// NewProfileStore creates a new in-memory profile store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: make(map[string]map[string]profileVersion),
	}
}

// Add stores a profile version. A nil list leaves the version without a
// marginality list.
func (s *ProfileStore) Add(name, version string, schema map[string]any, list domain.MarginalityList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	versions, ok := s.profiles[name]
	if !ok {
		versions = make(map[string]profileVersion)
		s.profiles[name] = versions
	}
	versions[version] = profileVersion{schema: schema, list: list}
}

// ListProfiles returns the stored profile names, sorted.
func (s *ProfileStore) ListProfiles(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ListVersions returns the stored versions of a profile, sorted.
func (s *ProfileStore) ListVersions(_ context.Context, name string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions, ok := s.profiles[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]string, 0, len(versions))
	for v := range versions {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

// Exists reports whether a profile version has a schema.
func (s *ProfileStore) Exists(_ context.Context, name, version string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pv, ok := s.profiles[name][version]
	return ok && pv.schema != nil, nil
}

// LoadSchema returns the schema of a profile version.
func (s *ProfileStore) LoadSchema(_ context.Context, name, version string) (*domain.Schema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pv, ok := s.profiles[name][version]
	if !ok || pv.schema == nil {
		return nil, domain.ErrNotFound
	}
	return &domain.Schema{
		Ref: domain.ProfileRef{Name: name, Version: version},
		Raw: pv.schema,
	}, nil
}

// LoadSchemaFile treats path as <name>/<version><ext>.
func (s *ProfileStore) LoadSchemaFile(ctx context.Context, path string) (*domain.Schema, error) {
	base := filepath.Base(path)
	version := strings.TrimSuffix(base, filepath.Ext(base))
	name := filepath.Base(filepath.Dir(path))
	schema, err := s.LoadSchema(ctx, name, version)
	if err != nil {
		return nil, err
	}
	schema.Ref.Path = path
	return schema, nil
}

// LoadMarginality returns the marginality list of a profile version.
func (s *ProfileStore) LoadMarginality(_ context.Context, name, version string) (domain.MarginalityList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pv, ok := s.profiles[name][version]
	if !ok || pv.list == nil {
		return nil, domain.ErrMarginalityNotFound
	}
	return pv.list, nil
}
