package cart

import "sync"

// Manager owns one Store per session key. Authenticated shoppers are
// keyed by their user id, guests by a caller-supplied cart token.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store
}

func NewManager() *Manager {
	return &Manager{stores: make(map[string]*Store)}
}

// Get returns the store for key, creating an empty one on first use.
func (m *Manager) Get(key string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.stores[key]
	if !ok {
		st = NewStore()
		m.stores[key] = st
	}
	return st
}

// Drop forgets the store for key, e.g. on session teardown.
func (m *Manager) Drop(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, key)
}
