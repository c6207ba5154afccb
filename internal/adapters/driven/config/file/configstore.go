package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore persists configuration as TOML. In memory the values
// live in a flat map keyed by dot notation ("llm.provider"), whatever
// shape the file on disk uses.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// NewConfigStore opens (or creates) config.toml under configDir,
// defaulting to ~/.wayfarer.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".wayfarer")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		data:     make(map[string]any),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get looks up a raw value under its dotted key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// GetString returns the value as a string, or "" on a miss or a
// type mismatch.
func (s *ConfigStore) GetString(key string) string {
	if v, ok := s.Get(key); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// GetInt returns the value as an int, or 0 on a miss or mismatch.
func (s *ConfigStore) GetInt(key string) int {
	v, _ := s.Get(key)
	switch n := v.(type) {
	case int64: // TOML integer literals decode to int64
		return int(n)
	case int:
		return n
	}
	return 0
}

// GetFloat returns the value as a float64, widening stored integers.
func (s *ConfigStore) GetFloat(key string) float64 {
	v, _ := s.Get(key)
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64: // a value written without a decimal point
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

// GetBool returns the value as a bool, or false on a miss or
// mismatch.
func (s *ConfigStore) GetBool(key string) bool {
	if v, ok := s.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// GetStringSlice retrieves a string slice configuration value. TOML
// arrays decode to []any, so non-string elements are dropped.
func (s *ConfigStore) GetStringSlice(key string) []string {
	v, ok := s.Get(key)
	if !ok {
		return nil
	}
	if ss, ok := v.([]string); ok {
		return ss
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

// Set stores a value under key and persists the file immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.persist()
}

// Save flushes the in-memory view to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist()
}

// persist writes the TOML file atomically with owner-only permissions,
// since provider API keys live in it. Caller must hold the lock.
func (s *ConfigStore) persist() error {
	raw, err := toml.Marshal(s.data)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.filePath), "config-*.toml.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.filePath); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Load replaces the in-memory view with the file contents. A missing
// file is not an error: the store starts empty.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		s.data = make(map[string]any)
		return nil
	}
	if err != nil {
		return err
	}

	var decoded map[string]any
	if err := toml.Unmarshal(raw, &decoded); err != nil {
		return err
	}

	flat := make(map[string]any, len(decoded))
	flatten("", decoded, flat)
	s.data = flat
	return nil
}

// flatten rewrites nested TOML tables as dot-notation keys, so a
// hand-written [llm] table and Set("llm.provider", ...) read back the
// same way.
func flatten(prefix string, in map[string]any, out map[string]any) {
	for key, value := range in {
		if prefix != "" {
			key = prefix + "." + key
		}
		if table, ok := value.(map[string]any); ok {
			flatten(key, table, out)
			continue
		}
		out[key] = value
	}
}

// Path reports where the configuration lives on disk.
func (s *ConfigStore) Path() string {
	return s.filePath
}
