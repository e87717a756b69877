package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Default vocabulary values.
const (
	DefaultVendorDomain   = "bioschemas.org"
	DefaultRegistryDomain = "bioschemas.org"
	ConformsToKey         = "http://purl.org/dc/terms/conformsTo"
	ConformsToCURIE       = "dct:conformsTo"
)

// ProfileSettings locates the profile store.
type ProfileSettings struct {
	// SchemaDir holds <Profile>/<version><SchemaExt> files.
	// A relative path is resolved against the application home.
	SchemaDir string

	// MarginalityDir holds <Profile>/<version><MarginalityExt> files.
	MarginalityDir string

	// SchemaExt is the schema file extension.
	SchemaExt string

	// MarginalityExt is the marginality file extension.
	MarginalityExt string

	// Watch enables cache invalidation on profile file changes.
	Watch bool
}

// RuleSettings locates the rule files.
type RuleSettings struct {
	// Dir holds the rule files.
	Dir string
}

// VocabularySettings holds the vocabulary-specific constants.
type VocabularySettings struct {
	// VendorDomains identify the @context entry whose prefix is stripped.
	VendorDomains []string

	// RegistryDomain identifies conformance links to stored profiles.
	RegistryDomain string

	// ConformsToKeys are the properties holding conformance links.
	ConformsToKeys []string
}

// ValidationSettings controls the pipeline.
type ValidationSettings struct {
	// Concurrency bounds batch validation.
	Concurrency int
}

// HistorySettings controls validation history.
type HistorySettings struct {
	// Enabled records results in the history database.
	Enabled bool
}

// ServerSettings controls the MCP HTTP transport.
type ServerSettings struct {
	// RateLimit is the allowed requests per second. Zero disables limiting.
	RateLimit int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Profiles   ProfileSettings
	Rules      RuleSettings
	Vocabulary VocabularySettings
	Validation ValidationSettings
	History    HistorySettings
	Server     ServerSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Directories are relative to the application home.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Profiles: ProfileSettings{
			SchemaDir:      filepath.Join("profiles", "json"),
			MarginalityDir: filepath.Join("profiles", "marginality"),
			SchemaExt:      ".json",
			MarginalityExt: ".json",
			Watch:          true,
		},
		Rules: RuleSettings{
			Dir: "rules",
		},
		Vocabulary: VocabularySettings{
			VendorDomains:  []string{DefaultVendorDomain},
			RegistryDomain: DefaultRegistryDomain,
			ConformsToKeys: []string{ConformsToKey, ConformsToCURIE},
		},
		Validation: ValidationSettings{
			Concurrency: 4,
		},
		History: HistorySettings{
			Enabled: true,
		},
		Server: ServerSettings{
			RateLimit: 10,
		},
	}
}

// ResolvePaths returns a copy with relative directories joined to home.
func (s AppSettings) ResolvePaths(home string) AppSettings {
	resolve := func(dir string) string {
		if dir == "" || filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(home, dir)
	}
	s.Profiles.SchemaDir = resolve(s.Profiles.SchemaDir)
	s.Profiles.MarginalityDir = resolve(s.Profiles.MarginalityDir)
	s.Rules.Dir = resolve(s.Rules.Dir)
	return s
}

// Validate checks the settings for values the pipeline cannot use.
func (s AppSettings) Validate() error {
	exts := []struct{ key, ext string }{
		{"profiles.schema_ext", s.Profiles.SchemaExt},
		{"profiles.marginality_ext", s.Profiles.MarginalityExt},
	}
	for _, e := range exts {
		if !strings.HasPrefix(e.ext, ".") {
			return fmt.Errorf("%w: %s must start with '.', got %q", ErrInvalidInput, e.key, e.ext)
		}
	}
	if s.Profiles.SchemaDir == "" || s.Profiles.MarginalityDir == "" {
		return fmt.Errorf("%w: profile directories must be set", ErrInvalidInput)
	}
	if s.Vocabulary.RegistryDomain == "" {
		return fmt.Errorf("%w: vocabulary.registry_domain must be set", ErrInvalidInput)
	}
	if s.Validation.Concurrency < 1 {
		return fmt.Errorf("%w: validation.concurrency must be positive", ErrInvalidInput)
	}
	if s.Server.RateLimit < 0 {
		return fmt.Errorf("%w: server.rate_limit must not be negative", ErrInvalidInput)
	}
	return nil
}
