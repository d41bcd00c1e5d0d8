package urlparam

import (
	"net/url"
	"strings"
	"sync"
)

// Address is the page's address bar.
type Address interface {
	// Location returns the current path and query. A fragment, if present,
	// is ignored.
	Location() string

	// ReplaceState replaces the current history entry without navigating.
	ReplaceState(state map[string]any, title, url string) error
}

// Committer publishes a new address. A nil Committer means the Address's own
// ReplaceState.
type Committer func(state map[string]any, title, url string) error

// splitLocation returns the path and raw query of loc. Anything after '#' is
// dropped. An unparsable location yields its path and an empty query.
func splitLocation(loc string) (path, rawQuery string) {
	if i := strings.IndexByte(loc, '#'); i >= 0 {
		loc = loc[:i]
	}

	u, err := url.Parse(loc)
	if err != nil {
		path, _, _ = strings.Cut(loc, "?")
		return path, ""
	}

	path = u.EscapedPath()
	if path == "" && u.Host != "" {
		path = "/"
	}
	return path, u.RawQuery
}

// joinHref renders path and params the way they are committed: no '?' when
// the set is empty.
func joinHref(path string, params *Params) string {
	if q := params.Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

// StateEntry is one recorded ReplaceState call.
type StateEntry struct {
	State map[string]any
	Title string
	URL   string
}

// MemoryLocation is an in-memory Address. It is safe for concurrent use.
type MemoryLocation struct {
	mu      sync.Mutex
	href    string
	depth   int
	entries []StateEntry
}

// NewMemoryLocation returns a location at href with a history depth of one.
func NewMemoryLocation(href string) *MemoryLocation {
	return &MemoryLocation{href: href, depth: 1}
}

// Location implements Address.
func (m *MemoryLocation) Location() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.href
}

// ReplaceState implements Address. The history depth is unchanged.
func (m *MemoryLocation) ReplaceState(state map[string]any, title, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.href = url
	m.entries = append(m.entries, StateEntry{State: state, Title: title, URL: url})
	return nil
}

// Navigate moves to href as a new history entry.
func (m *MemoryLocation) Navigate(href string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.href = href
	m.depth++
}

// Depth returns the number of history entries.
func (m *MemoryLocation) Depth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.depth
}

// Entries returns every ReplaceState call in order.
func (m *MemoryLocation) Entries() []StateEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StateEntry(nil), m.entries...)
}
