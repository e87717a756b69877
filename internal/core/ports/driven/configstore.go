package driven

// ConfigStore holds flattened configuration keys such as
// "validation.concurrency". Values keep the type they were decoded or set
// with; the typed getters convert what they can.
type ConfigStore interface {
	// Get returns the raw value and whether key is set.
	Get(key string) (any, bool)

	// GetString returns "" when key is unset or not a string.
	GetString(key string) string

	// GetInt accepts any integer or float encoding; 0 otherwise.
	GetInt(key string) int

	// GetBool returns false when key is unset or not a bool.
	GetBool(key string) bool

	// GetStringSlice accepts []string and []any of strings; nil otherwise.
	GetStringSlice(key string) []string

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Save persists every value.
	Save() error

	// Load replaces the values with the persisted ones.
	Load() error

	// Path identifies where values are persisted.
	Path() string
}
