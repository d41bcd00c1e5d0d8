package urlparam

import (
	"log/slog"

	"github.com/vango-dev/pagekit/internal/logging"
	"github.com/vango-dev/pagekit/pkg/metrics"
)

// Synchronizer merges query updates into an Address.
//
// Every call re-reads the address. There is no locking across calls: with
// several writers the last commit wins.
type Synchronizer struct {
	addr    Address
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

// WithMetrics records commits into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Synchronizer) {
		s.metrics = m
	}
}

// NewSynchronizer returns a Synchronizer over addr.
func NewSynchronizer(addr Address, opts ...Option) *Synchronizer {
	s := &Synchronizer{addr: addr}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDefault(s.logger)
	return s
}

// Current returns the parameters of the current address.
func (s *Synchronizer) Current() *Params {
	_, params := s.snapshot()
	return params
}

// Href returns the current address as it would be committed.
func (s *Synchronizer) Href() string {
	return joinHref(s.snapshot())
}

// Set applies one update and commits. See SetMany.
func (s *Synchronizer) Set(name, value string, commit Committer) error {
	return s.SetMany([]Pair{{Name: name, Value: value}}, commit)
}

// SetMany applies pairs in order to the current parameters and commits the
// result once. An empty value removes its parameter. A name repeated in the
// query keeps only its first value, even when no pair touches it. The only
// error returned is the committer's.
func (s *Synchronizer) SetMany(pairs []Pair, commit Committer) error {
	path, params := s.snapshot()
	params.Apply(pairs)
	href := joinHref(path, params)

	if commit == nil {
		commit = s.addr.ReplaceState
	}
	err := commit(map[string]any{}, "", href)
	s.metrics.RecordCommit(err)
	if err != nil {
		s.logger.Debug("query commit failed", "href", href, "error", err)
		return err
	}

	s.logger.Debug("query committed", "href", href, "updates", len(pairs))
	return nil
}

func (s *Synchronizer) snapshot() (string, *Params) {
	path, raw := splitLocation(s.addr.Location())
	return path, ParseQuery(raw)
}
