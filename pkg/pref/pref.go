package pref

import (
	"context"
	"sync"
	"time"
)

// Pref is a typed value persisted under one key.
type Pref[T any] struct {
	store    *Store
	key      string
	defaults T

	mu        sync.RWMutex
	updatedAt time.Time
}

// New returns a preference stored under key in store.
func New[T any](store *Store, key string, defaultValue T) *Pref[T] {
	return &Pref[T]{store: store, key: key, defaults: defaultValue}
}

// Get returns the stored value, or the default when absent or unreadable.
func (p *Pref[T]) Get(ctx context.Context) T {
	return Get(ctx, p.store, p.key, p.defaults)
}

// Set stores value and reports whether the write succeeded.
func (p *Pref[T]) Set(ctx context.Context, value T) bool {
	if !p.store.Set(ctx, p.key, value) {
		return false
	}
	p.mu.Lock()
	p.updatedAt = time.Now()
	p.mu.Unlock()
	return true
}

// Reset removes the stored value so Get returns the default.
func (p *Pref[T]) Reset(ctx context.Context) bool {
	if !p.store.Remove(ctx, p.key) {
		return false
	}
	p.mu.Lock()
	p.updatedAt = time.Now()
	p.mu.Unlock()
	return true
}

// Key returns the storage key.
func (p *Pref[T]) Key() string {
	return p.key
}

// Default returns the default value.
func (p *Pref[T]) Default() T {
	return p.defaults
}

// UpdatedAt returns when this Pref last wrote to the store, or the zero time.
func (p *Pref[T]) UpdatedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.updatedAt
}
