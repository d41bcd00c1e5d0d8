package logging

import (
	"context"
	"log/slog"
	"sync"
)

// Record is one captured log entry.
type Record struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// Recorder is an slog.Handler that keeps every record in memory.
// Tests use it to assert on diagnostics.
type Recorder struct {
	mu      sync.Mutex
	records []Record
	attrs   []slog.Attr
	parent  *Recorder
}

// NewRecorder returns an empty Recorder and a logger writing to it.
func NewRecorder() (*Recorder, *slog.Logger) {
	r := &Recorder{}
	return r, slog.New(r)
}

func (r *Recorder) root() *Recorder {
	if r.parent != nil {
		return r.parent.root()
	}
	return r
}

// Enabled reports true for every level.
func (r *Recorder) Enabled(context.Context, slog.Level) bool { return true }

// Handle stores the record.
func (r *Recorder) Handle(_ context.Context, rec slog.Record) error {
	attrs := make(map[string]any, rec.NumAttrs()+len(r.attrs))
	for _, a := range r.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	rec.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	root := r.root()
	root.mu.Lock()
	root.records = append(root.records, Record{Level: rec.Level, Message: rec.Message, Attrs: attrs})
	root.mu.Unlock()
	return nil
}

// WithAttrs returns a child handler sharing the record buffer.
func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, r.attrs...), attrs...)
	return &Recorder{attrs: merged, parent: r.root()}
}

// WithGroup is not needed by pagekit; groups are flattened.
func (r *Recorder) WithGroup(string) slog.Handler { return r }

// Records returns a copy of everything logged so far.
func (r *Recorder) Records() []Record {
	root := r.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	return append([]Record(nil), root.records...)
}

// Count returns how many records were logged at level.
func (r *Recorder) Count(level slog.Level) int {
	n := 0
	for _, rec := range r.Records() {
		if rec.Level == level {
			n++
		}
	}
	return n
}

// Reset drops all records.
func (r *Recorder) Reset() {
	root := r.root()
	root.mu.Lock()
	root.records = nil
	root.mu.Unlock()
}
