// Package browser drives a real page in headless Chrome and exposes it
// through the same ports the rest of pagekit uses: the address bar
// (urlparam.Address), localStorage (pref.Surface) and the DOM (dom.Document).
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/vango-dev/pagekit/internal/logging"
)

// DefaultTimeout bounds each evaluated script.
const DefaultTimeout = 10 * time.Second

// Tab is one browser tab.
type Tab struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	location string // last address read or committed
}

// Option configures a Tab.
type Option func(*Tab)

// WithTimeout bounds each script evaluation.
func WithTimeout(d time.Duration) Option {
	return func(t *Tab) {
		t.timeout = d
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tab) {
		t.logger = logger
	}
}

// Launch starts headless Chrome and opens a tab.
func Launch(parent context.Context, opts ...Option) (*Tab, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	// Start the browser now so launch errors surface here.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("browser: launch: %w", err)
	}

	t := Attach(ctx, opts...)
	t.cancel = func() {
		cancel()
		allocCancel()
	}
	return t, nil
}

// Attach wraps an existing chromedp context.
func Attach(ctx context.Context, opts ...Option) *Tab {
	t := &Tab{ctx: ctx, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = logging.OrDefault(t.logger)
	return t
}

// Navigate loads url and waits for the body.
func (t *Tab) Navigate(ctx context.Context, url string) error {
	return t.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery))
}

// Close shuts the tab down, and the browser if Launch started it.
func (t *Tab) Close() {
	if t.cancel != nil {
		t.cancel()
	}
}

// run executes actions on the tab, bounded by the tab timeout and ctx.
func (t *Tab) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(t.ctx, t.timeout)
	defer cancel()
	if ctx != nil {
		stop := context.AfterFunc(ctx, cancel)
		defer stop()
	}
	return chromedp.Run(runCtx, actions...)
}

// eval evaluates a JavaScript expression and decodes its result into res.
func (t *Tab) eval(ctx context.Context, expr string, res any) error {
	return t.run(ctx, chromedp.Evaluate(expr, res))
}

// call builds "fn(args...)" with every argument JSON-encoded.
func call(fn string, args ...any) (string, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		data, err := json.Marshal(a)
		if err != nil {
			return "", err
		}
		parts[i] = string(data)
	}
	return fn + "(" + strings.Join(parts, ",") + ")", nil
}
