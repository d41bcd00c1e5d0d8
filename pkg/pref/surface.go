package pref

import (
	"context"
	"errors"
)

// Surface is a string key/value store.
type Surface interface {
	// GetItem returns the value for key and whether it exists.
	GetItem(ctx context.Context, key string) (string, bool, error)

	// SetItem stores value under key.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error
}

// ErrQuotaExceeded is returned by SetItem when the surface is full.
var ErrQuotaExceeded = errors.New("pref: storage quota exceeded")
