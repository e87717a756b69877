package driven

import (
	"context"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

// ProfileStore reads versioned profile artefacts.
// Profiles are addressed by (name, version) where version is the stem of
// the stored file, e.g. ("Dataset", "1.0-RELEASE").
type ProfileStore interface {
	// ListProfiles returns the names of all stored profiles, sorted.
	ListProfiles(ctx context.Context) ([]string, error)

	// ListVersions returns the version names stored for a profile.
	// Returns domain.ErrNotFound if the profile does not exist.
	ListVersions(ctx context.Context, name string) ([]string, error)

	// Exists reports whether a schema is stored for (name, version).
	Exists(ctx context.Context, name, version string) (bool, error)

	// LoadSchema returns the stored schema for (name, version).
	// Returns domain.ErrNotFound if it does not exist.
	LoadSchema(ctx context.Context, name, version string) (*domain.Schema, error)

	// LoadSchemaFile reads a schema from an explicit path. The profile name
	// is the parent directory and the version the file stem.
	LoadSchemaFile(ctx context.Context, path string) (*domain.Schema, error)

	// LoadMarginality returns the marginality list for (name, version).
	// Returns domain.ErrMarginalityNotFound if it does not exist.
	LoadMarginality(ctx context.Context, name, version string) (domain.MarginalityList, error)
}
