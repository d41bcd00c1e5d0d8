package fetch

import (
	"context"
	"encoding/json"
	"fmt"
)

// Post posts body and decodes the response into T.
func Post[T any](ctx context.Context, c *Client, url string, body any) (T, error) {
	var v T
	msg, err := c.PostJSON(ctx, url, body)
	if err != nil {
		return v, err
	}
	return decode[T](c, url, msg)
}

// Get fetches url and decodes the response into T.
func Get[T any](ctx context.Context, c *Client, url string, opts *Options) (T, error) {
	var v T
	msg, err := c.GetJSON(ctx, url, opts)
	if err != nil {
		return v, err
	}
	return decode[T](c, url, msg)
}

func decode[T any](c *Client, url string, msg json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(msg, &v); err != nil {
		err = fmt.Errorf("fetch: decode %s: %w", url, err)
		c.logger.Error("Fetch error", "url", url, "error", err)
		return v, err
	}
	return v, nil
}
