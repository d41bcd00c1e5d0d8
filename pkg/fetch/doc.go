// Package fetch sends JSON requests and decodes JSON responses.
//
//	c := fetch.New(fetch.WithBaseURL("https://api.example.com"))
//
//	// POST returns the parsed body whatever the status.
//	res, err := c.PostJSON(ctx, "/api/favorites/123", map[string]bool{"favorite": true})
//
//	// GET fails with *StatusError on a non-2xx status.
//	var page Page
//	page, err = fetch.Get[Page](ctx, c, "/api/channels", nil)
//
// Every failure is logged at error level and returned. Requests carry the
// caller's trace context and are recorded as client spans.
package fetch
