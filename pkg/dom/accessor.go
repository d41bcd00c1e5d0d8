package dom

import (
	"log/slog"

	"github.com/vango-dev/pagekit/internal/logging"
	"github.com/vango-dev/pagekit/pkg/metrics"
)

// Accessor looks up elements in a Document.
type Accessor struct {
	doc     Document
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// AccessorOption configures an Accessor.
type AccessorOption func(*Accessor)

// WithLogger sets the diagnostics logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) AccessorOption {
	return func(a *Accessor) {
		a.logger = logger
	}
}

// WithMetrics counts missing elements into m.
func WithMetrics(m *metrics.Metrics) AccessorOption {
	return func(a *Accessor) {
		a.metrics = m
	}
}

// NewAccessor returns an Accessor over doc.
func NewAccessor(doc Document, opts ...AccessorOption) *Accessor {
	a := &Accessor{doc: doc}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.OrDefault(a.logger)
	return a
}

// Document returns the underlying document.
func (a *Accessor) Document() Document {
	return a.doc
}

// Get looks up id. A missing element logs a warning unless quiet is set.
func (a *Accessor) Get(id string, quiet bool) Lookup {
	if el, ok := a.doc.ElementByID(id); ok {
		return FoundElement(el)
	}

	a.metrics.RecordMissingElement()
	if !quiet {
		a.logger.Warn("Element with ID '"+id+"' not found", "id", id)
	}
	return NotFound(id)
}

// GetMany looks up every id quietly. The result has one entry per id.
func (a *Accessor) GetMany(ids []string) map[string]Lookup {
	result := make(map[string]Lookup, len(ids))
	for _, id := range ids {
		result[id] = a.Get(id, true)
	}
	return result
}
