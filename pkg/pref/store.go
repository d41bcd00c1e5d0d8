package pref

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/vango-dev/pagekit/internal/logging"
	"github.com/vango-dev/pagekit/pkg/metrics"
)

// Store reads and writes JSON values in a Surface.
type Store struct {
	surface Surface
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the diagnostics logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithMetrics records storage operations into m.
func WithMetrics(m *metrics.Metrics) StoreOption {
	return func(s *Store) {
		s.metrics = m
	}
}

// NewStore returns a Store over surface.
func NewStore(surface Surface, opts ...StoreOption) *Store {
	s := &Store{surface: surface}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDefault(s.logger)
	return s
}

// Surface returns the underlying surface.
func (s *Store) Surface() Surface {
	return s.surface
}

// Get returns the value stored under key decoded as T. An absent key returns
// def. A value that is not valid JSON for T, or a surface error, logs one
// error and returns def.
func Get[T any](ctx context.Context, s *Store, key string, def T) T {
	raw, ok, err := s.surface.GetItem(ctx, key)
	if err != nil {
		s.metrics.RecordStorage("get", false)
		s.logger.Error("Error reading storage item '"+key+"'", "key", key, "error", err)
		return def
	}
	if !ok {
		s.metrics.RecordStorage("get", true)
		return def
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.metrics.RecordStorage("get", false)
		s.logger.Error("Error parsing storage item '"+key+"'", "key", key, "error", err)
		return def
	}
	s.metrics.RecordStorage("get", true)
	return v
}

// Set stores value as JSON under key. It reports whether the write succeeded;
// failures are logged.
func (s *Store) Set(ctx context.Context, key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		s.metrics.RecordStorage("set", false)
		s.logger.Error("Error setting storage item '"+key+"'", "key", key, "error", err)
		return false
	}
	if err := s.surface.SetItem(ctx, key, string(data)); err != nil {
		s.metrics.RecordStorage("set", false)
		s.logger.Error("Error setting storage item '"+key+"'", "key", key, "error", err)
		return false
	}
	s.metrics.RecordStorage("set", true)
	return true
}

// Remove deletes key. It reports whether the delete succeeded; failures are
// logged.
func (s *Store) Remove(ctx context.Context, key string) bool {
	if err := s.surface.RemoveItem(ctx, key); err != nil {
		s.metrics.RecordStorage("remove", false)
		s.logger.Error("Error removing storage item '"+key+"'", "key", key, "error", err)
		return false
	}
	s.metrics.RecordStorage("remove", true)
	return true
}
