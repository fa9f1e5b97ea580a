package stores

import (
	"sort"
	"strings"
	"sync"
)

type memoryLocal struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemoryLocal returns an in-memory LocalStore. Tests use it in place of
// the SQLite backend.
func NewMemoryLocal() LocalStore {
	return &memoryLocal{values: make(map[string][]byte)}
}

func (m *memoryLocal) Read(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, exists := m.values[key]
	if !exists {
		return nil, ErrNotFound
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *memoryLocal) Write(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.values[key] = stored
	return nil
}

func (m *memoryLocal) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

func (m *memoryLocal) Keys(prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for key := range m.values {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)
	return keys, nil
}
