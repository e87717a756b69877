package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
	"github.com/custodia-labs/metaval/internal/logger"
)

// Ensure ProfileStore implements the interface.
var _ driven.ProfileStore = (*ProfileStore)(nil)

// ProfileStore is a directory-backed implementation of driven.ProfileStore.
type ProfileStore struct {
	schemaDir      string
	marginalityDir string
	schemaExt      string
	marginalityExt string
}

// NewProfileStore creates a store over the configured directories.
func NewProfileStore(settings domain.ProfileSettings) *ProfileStore {
	return &ProfileStore{
		schemaDir:      settings.SchemaDir,
		marginalityDir: settings.MarginalityDir,
		schemaExt:      settings.SchemaExt,
		marginalityExt: settings.MarginalityExt,
	}
}

// SchemaDir returns the schema directory.
func (s *ProfileStore) SchemaDir() string {
	return s.schemaDir
}

// MarginalityDir returns the marginality directory.
func (s *ProfileStore) MarginalityDir() string {
	return s.marginalityDir
}

// ListProfiles returns the profile directories holding at least one schema.
// A missing schema directory is an empty store.
func (s *ProfileStore) ListProfiles(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.schemaDir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading schema directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		versions, err := s.ListVersions(ctx, e.Name())
		if err != nil {
			return nil, err
		}
		if len(versions) > 0 {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ListVersions returns the version stems of a profile's schema files.
func (s *ProfileStore) ListVersions(ctx context.Context, name string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validSegment(name) {
		return nil, domain.ErrNotFound
	}
	entries, err := os.ReadDir(filepath.Join(s.schemaDir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", name, err)
	}

	versions := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != s.schemaExt {
			continue
		}
		versions = append(versions, strings.TrimSuffix(e.Name(), s.schemaExt))
	}
	sort.Strings(versions)
	return versions, nil
}

// Exists reports whether a schema file exists for (name, version).
func (s *ProfileStore) Exists(_ context.Context, name, version string) (bool, error) {
	if !validSegment(name) || !validSegment(version) {
		return false, nil
	}
	info, err := os.Stat(s.schemaPath(name, version))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s/%s: %w", name, version, err)
	}
	return !info.IsDir(), nil
}

// LoadSchema reads and decodes the schema of (name, version).
func (s *ProfileStore) LoadSchema(ctx context.Context, name, version string) (*domain.Schema, error) {
	if !validSegment(name) || !validSegment(version) {
		return nil, domain.ErrNotFound
	}
	return s.load(ctx, s.schemaPath(name, version), name, version)
}

// LoadSchemaFile reads a schema from an explicit path. The profile name is
// the parent directory and the version the file stem.
func (s *ProfileStore) LoadSchemaFile(ctx context.Context, path string) (*domain.Schema, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	base := filepath.Base(abs)
	version := strings.TrimSuffix(base, filepath.Ext(base))
	name := filepath.Base(filepath.Dir(abs))
	return s.load(ctx, abs, name, version)
}

func (s *ProfileStore) load(ctx context.Context, path, name, version string) (*domain.Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: schema %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading schema %s: %w", path, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSchemaInvalid, path, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: %s: not a JSON object", domain.ErrSchemaInvalid, path)
	}
	logger.Debug("Loaded schema %s", path)

	return &domain.Schema{
		Ref: domain.ProfileRef{Name: name, Version: version, Path: path},
		Raw: raw,
	}, nil
}

// LoadMarginality reads the marginality list of (name, version).
func (s *ProfileStore) LoadMarginality(ctx context.Context, name, version string) (domain.MarginalityList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validSegment(name) || !validSegment(version) {
		return nil, domain.ErrMarginalityNotFound
	}
	path := filepath.Join(s.marginalityDir, name, version+s.marginalityExt)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrMarginalityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading marginality %s: %w", path, err)
	}
	list, err := ParseMarginality(data)
	if err != nil {
		return nil, fmt.Errorf("parsing marginality %s: %w", path, err)
	}
	return list, nil
}

// ParseMarginality decodes a JSON or YAML marginality list. Unknown keys
// are ignored; non-string entries are an error.
func ParseMarginality(data []byte) (domain.MarginalityList, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	list := make(domain.MarginalityList, len(domain.Levels()))
	for key, value := range raw {
		level, ok := domain.ParseLevel(key)
		if !ok {
			logger.Debug("Ignoring marginality key %q", key)
			continue
		}
		if value == nil {
			continue
		}
		items, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a list", domain.ErrInvalidInput, key)
		}
		for _, item := range items {
			name, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s entries must be strings, got %v", domain.ErrInvalidInput, key, item)
			}
			list[level] = append(list[level], name)
		}
	}
	return list, nil
}

func (s *ProfileStore) schemaPath(name, version string) string {
	return filepath.Join(s.schemaDir, name, version+s.schemaExt)
}

// validSegment rejects names that would escape the store directories.
func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}
