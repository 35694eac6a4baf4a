package memory

import (
	"slices"
	"sync"

	"github.com/custodia-labs/postcraft/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps config writes in memory. With a base store, reads fall
// through to it for keys that were not set here, so a dry run sees the
// stored configuration without changing it.
type ConfigStore struct {
	mu      sync.RWMutex
	base    driven.ConfigStore
	changes map[string]any
}

// NewConfigStore creates an empty store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{changes: make(map[string]any)}
}

// NewOverlay creates a store layered over base. base is never written.
func NewOverlay(base driven.ConfigStore) *ConfigStore {
	s := NewConfigStore()
	s.base = base
	return s
}

// Get returns the in-memory value for key, else the base value.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	val, ok := s.changes[key]
	s.mu.RUnlock()
	if ok || s.base == nil {
		return val, ok
	}
	return s.base.Get(key)
}

// GetString returns key as a string, or "".
func (s *ConfigStore) GetString(key string) string {
	str, _ := s.lookup(key).(string)
	return str
}

// GetInt returns key as an int. TOML numbers decode as int64.
func (s *ConfigStore) GetInt(key string) int {
	switch v := s.lookup(key).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// GetBool returns key as a bool, or false.
func (s *ConfigStore) GetBool(key string) bool {
	b, _ := s.lookup(key).(bool)
	return b
}

// GetStringSlice returns key as a string slice. Non-string items are skipped.
func (s *ConfigStore) GetStringSlice(key string) []string {
	switch v := s.lookup(key).(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

func (s *ConfigStore) lookup(key string) any {
	val, _ := s.Get(key)
	return val
}

// Set records value in memory only.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes[key] = value
	return nil
}

// Changed returns the keys set on this store, sorted.
func (s *ConfigStore) Changed() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.changes))
	for k := range s.changes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Keys returns the union of in-memory and base keys, sorted.
func (s *ConfigStore) Keys() []string {
	keys := s.Changed()
	if s.base != nil {
		keys = append(keys, s.base.Keys()...)
		slices.Sort(keys)
		keys = slices.Compact(keys)
	}
	return keys
}

// Save is a no-op; nothing leaves memory.
func (s *ConfigStore) Save() error {
	return nil
}

// Load drops the in-memory changes.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.changes)
	return nil
}

// Path returns the base path, or ":memory:" without a base.
func (s *ConfigStore) Path() string {
	if s.base == nil {
		return ":memory:"
	}
	return s.base.Path() + " (dry run, not written)"
}
