package browser

import (
	"context"
	"fmt"

	"github.com/vango-dev/pagekit/pkg/urlparam"
)

var _ urlparam.Address = (*Tab)(nil)

// Location implements urlparam.Address. It returns the path and query of
// the page. When the page cannot be read it returns the last address read
// or committed, or "/" before any.
func (t *Tab) Location() string {
	var loc string
	if err := t.eval(context.Background(), `location.pathname + location.search`, &loc); err != nil {
		t.logger.Warn("read location failed", "error", err)
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.location == "" {
			return "/"
		}
		return t.location
	}
	t.remember(loc)
	return loc
}

func (t *Tab) remember(loc string) {
	t.mu.Lock()
	t.location = loc
	t.mu.Unlock()
}

// ReplaceState implements urlparam.Address using history.replaceState.
func (t *Tab) ReplaceState(state map[string]any, title, url string) error {
	if state == nil {
		state = map[string]any{}
	}
	expr, err := call("history.replaceState", state, title, url)
	if err != nil {
		return fmt.Errorf("browser: encode state: %w", err)
	}
	if err := t.eval(context.Background(), expr+", true", nil); err != nil {
		return err
	}
	t.remember(url)
	return nil
}
