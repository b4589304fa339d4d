package store

import "sync"

// MemoryKV is an in-memory KV medium. Contents are lost when the process
// exits; it backs tests and ephemeral runs.
type MemoryKV struct {
	items map[string]string
	mu    sync.RWMutex
}

// NewMemoryKV creates an empty in-memory medium.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = value
	return nil
}

// Count returns the number of stored keys.
func (m *MemoryKV) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Close does nothing; the contents stay readable.
func (m *MemoryKV) Close() error {
	return nil
}
