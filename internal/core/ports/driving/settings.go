package driving

import "github.com/custodia-labs/metaval/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by config key, parsing value for the
	// key's type. Returns domain.ErrInvalidInput for unknown keys.
	Set(key, value string) error

	// Value returns the current value of a config key in the form Set
	// accepts.
	Value(key string) (string, error)

	// Keys returns every supported config key, sorted.
	Keys() []string

	// Validate checks if current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
