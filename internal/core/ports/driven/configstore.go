package driven

// ConfigStore is the persisted key/value configuration behind the settings
// service. Keys are dotted paths like "plan.retrieval_k"; the typed getters
// absorb missing keys and type drift so callers never branch on lookup
// failures.
type ConfigStore interface {
	// Get returns the raw value for key and whether the key is present.
	Get(key string) (any, bool)

	// GetString returns the value as a string, or "" when the key is
	// absent or holds a different type.
	GetString(key string) string

	// GetInt returns the value as an int, or 0 on a miss or mismatch.
	GetInt(key string) int

	// GetBool returns the value as a bool, or false on a miss or mismatch.
	GetBool(key string) bool

	// GetFloat returns the value as a float64, or 0 when the key is
	// absent or not numeric.
	GetFloat(key string) float64

	// GetStringSlice returns the value as a string slice, or nil on a
	// miss or mismatch.
	GetStringSlice(key string) []string

	// Set writes a value and persists it immediately.
	Set(key string, value any) error

	// Save writes the full configuration to its backing file.
	Save() error

	// Load replaces the in-memory configuration from the backing file.
	Load() error

	// Path reports where the configuration lives on disk.
	Path() string
}
