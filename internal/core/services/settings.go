package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
	"github.com/custodia-labs/metaval/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeySchemaDir       = "profiles.schema_dir"
	KeyMarginalityDir  = "profiles.marginality_dir"
	KeySchemaExt       = "profiles.schema_ext"
	KeyMarginalityExt  = "profiles.marginality_ext"
	KeyWatch           = "profiles.watch"
	KeyRulesDir        = "rules.dir"
	KeyVendorDomains   = "vocabulary.vendor_domains"
	KeyRegistryDomain  = "vocabulary.registry_domain"
	KeyConformsToKeys  = "vocabulary.conforms_to_keys"
	KeyConcurrency     = "validation.concurrency"
	KeyHistoryEnabled  = "history.enabled"
	KeyServerRateLimit = "server.rate_limit"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindBool
	kindList
)

var settingKeys = map[string]keyKind{
	KeySchemaDir:       kindString,
	KeyMarginalityDir:  kindString,
	KeySchemaExt:       kindString,
	KeyMarginalityExt:  kindString,
	KeyWatch:           kindBool,
	KeyRulesDir:        kindString,
	KeyVendorDomains:   kindList,
	KeyRegistryDomain:  kindString,
	KeyConformsToKeys:  kindList,
	KeyConcurrency:     kindInt,
	KeyHistoryEnabled:  kindBool,
	KeyServerRateLimit: kindInt,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Unset keys take defaults.
// Directories are returned as stored; relative paths are resolved by the
// caller against the application home.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	if s.configStore == nil {
		return nil, domain.ErrNotImplemented
	}
	d := domain.DefaultAppSettings()

	return &domain.AppSettings{
		Profiles: domain.ProfileSettings{
			SchemaDir:      s.getString(KeySchemaDir, d.Profiles.SchemaDir),
			MarginalityDir: s.getString(KeyMarginalityDir, d.Profiles.MarginalityDir),
			SchemaExt:      s.getString(KeySchemaExt, d.Profiles.SchemaExt),
			MarginalityExt: s.getString(KeyMarginalityExt, d.Profiles.MarginalityExt),
			Watch:          s.getBool(KeyWatch, d.Profiles.Watch),
		},
		Rules: domain.RuleSettings{
			Dir: s.getString(KeyRulesDir, d.Rules.Dir),
		},
		Vocabulary: domain.VocabularySettings{
			VendorDomains:  s.getList(KeyVendorDomains, d.Vocabulary.VendorDomains),
			RegistryDomain: s.getString(KeyRegistryDomain, d.Vocabulary.RegistryDomain),
			ConformsToKeys: s.getList(KeyConformsToKeys, d.Vocabulary.ConformsToKeys),
		},
		Validation: domain.ValidationSettings{
			Concurrency: s.getInt(KeyConcurrency, d.Validation.Concurrency),
		},
		History: domain.HistorySettings{
			Enabled: s.getBool(KeyHistoryEnabled, d.History.Enabled),
		},
		Server: domain.ServerSettings{
			RateLimit: s.getInt(KeyServerRateLimit, d.Server.RateLimit),
		},
	}, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if settings == nil {
		return domain.ErrInvalidInput
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{KeySchemaDir, settings.Profiles.SchemaDir},
		{KeyMarginalityDir, settings.Profiles.MarginalityDir},
		{KeySchemaExt, settings.Profiles.SchemaExt},
		{KeyMarginalityExt, settings.Profiles.MarginalityExt},
		{KeyWatch, settings.Profiles.Watch},
		{KeyRulesDir, settings.Rules.Dir},
		{KeyVendorDomains, settings.Vocabulary.VendorDomains},
		{KeyRegistryDomain, settings.Vocabulary.RegistryDomain},
		{KeyConformsToKeys, settings.Vocabulary.ConformsToKeys},
		{KeyConcurrency, settings.Validation.Concurrency},
		{KeyHistoryEnabled, settings.History.Enabled},
		{KeyServerRateLimit, settings.Server.RateLimit},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set updates a single setting from its string form. Lists are
// comma-separated. The resulting settings must still validate.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	kind, ok := settingKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var parsed any
	switch kind {
	case kindString:
		parsed = strings.TrimSpace(value)
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s expects an integer, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = n
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = b
	case kindList:
		items := []string{}
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		parsed = items
	}

	candidate, err := s.Get()
	if err != nil {
		return err
	}
	switch ref := field(candidate, key).(type) {
	case *string:
		*ref = parsed.(string)
	case *int:
		*ref = parsed.(int)
	case *bool:
		*ref = parsed.(bool)
	case *[]string:
		*ref = parsed.([]string)
	}
	if err := candidate.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Value returns the current value of key in its string form, as Set
// accepts it.
func (s *SettingsService) Value(key string) (string, error) {
	if _, ok := settingKeys[key]; !ok {
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	settings, err := s.Get()
	if err != nil {
		return "", err
	}
	switch ref := field(settings, key).(type) {
	case *string:
		return *ref, nil
	case *int:
		return strconv.Itoa(*ref), nil
	case *bool:
		return strconv.FormatBool(*ref), nil
	case *[]string:
		return strings.Join(*ref, ","), nil
	}
	return "", nil
}

// field points at the AppSettings field stored under key.
func field(st *domain.AppSettings, key string) any {
	switch key {
	case KeySchemaDir:
		return &st.Profiles.SchemaDir
	case KeyMarginalityDir:
		return &st.Profiles.MarginalityDir
	case KeySchemaExt:
		return &st.Profiles.SchemaExt
	case KeyMarginalityExt:
		return &st.Profiles.MarginalityExt
	case KeyWatch:
		return &st.Profiles.Watch
	case KeyRulesDir:
		return &st.Rules.Dir
	case KeyVendorDomains:
		return &st.Vocabulary.VendorDomains
	case KeyRegistryDomain:
		return &st.Vocabulary.RegistryDomain
	case KeyConformsToKeys:
		return &st.Vocabulary.ConformsToKeys
	case KeyConcurrency:
		return &st.Validation.Concurrency
	case KeyHistoryEnabled:
		return &st.History.Enabled
	case KeyServerRateLimit:
		return &st.Server.RateLimit
	}
	return nil
}

// Keys returns every supported config key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKeys))
	for k := range settingKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getList(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}
