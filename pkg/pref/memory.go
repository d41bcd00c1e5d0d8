package pref

import (
	"context"
	"sync"
)

// MemorySurface is an in-memory Surface. It is safe for concurrent use.
type MemorySurface struct {
	mu    sync.RWMutex
	items map[string]string
	quota int
	used  int
}

// NewMemorySurface returns an empty surface. A positive quota caps the total
// bytes of keys and values, as browsers do for localStorage; zero means
// unlimited.
func NewMemorySurface(quota int) *MemorySurface {
	return &MemorySurface{items: make(map[string]string), quota: quota}
}

// GetItem implements Surface.
func (m *MemorySurface) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

// SetItem implements Surface. It returns ErrQuotaExceeded, leaving the
// previous value in place, when the write would exceed the quota.
func (m *MemorySurface) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	used := m.used + len(key) + len(value)
	if old, ok := m.items[key]; ok {
		used -= len(key) + len(old)
	}
	if m.quota > 0 && used > m.quota {
		return ErrQuotaExceeded
	}
	m.items[key] = value
	m.used = used
	return nil
}

// RemoveItem implements Surface.
func (m *MemorySurface) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.items[key]; ok {
		m.used -= len(key) + len(old)
		delete(m.items, key)
	}
	return nil
}

// Len returns the number of stored items.
func (m *MemorySurface) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Used returns the bytes counted against the quota.
func (m *MemorySurface) Used() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used
}
