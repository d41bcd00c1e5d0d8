package browser

import (
	"context"

	"github.com/vango-dev/pagekit/pkg/pref"
)

var _ pref.Surface = (*Tab)(nil)

type storageItem struct {
	OK    bool   `json:"ok"`
	Value string `json:"value"`
}

// GetItem implements pref.Surface over window.localStorage.
func (t *Tab) GetItem(ctx context.Context, key string) (string, bool, error) {
	expr, err := call(`(k => { const v = localStorage.getItem(k); return v === null ? {ok: false, value: ""} : {ok: true, value: v}; })`, key)
	if err != nil {
		return "", false, err
	}
	var item storageItem
	if err := t.eval(ctx, expr, &item); err != nil {
		return "", false, err
	}
	return item.Value, item.OK, nil
}

// SetItem implements pref.Surface. A full localStorage fails with the
// browser's QuotaExceededError.
func (t *Tab) SetItem(ctx context.Context, key, value string) error {
	expr, err := call("localStorage.setItem", key, value)
	if err != nil {
		return err
	}
	return t.eval(ctx, expr+", true", nil)
}

// RemoveItem implements pref.Surface.
func (t *Tab) RemoveItem(ctx context.Context, key string) error {
	expr, err := call("localStorage.removeItem", key)
	if err != nil {
		return err
	}
	return t.eval(ctx, expr+", true", nil)
}
