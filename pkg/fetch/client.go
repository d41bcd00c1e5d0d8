package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/pagekit/internal/logging"
	"github.com/vango-dev/pagekit/pkg/metrics"
)

const (
	defaultTracerName = "pagekit/fetch"

	// DefaultMaxBodyBytes caps how much of a response body is read.
	DefaultMaxBodyBytes = 10 << 20
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options are extra request settings for GetJSON.
type Options struct {
	Header http.Header
}

// StatusError is returned by GetJSON for a non-2xx response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// Outcome labels for metrics.
const (
	OutcomeOK     = "ok"
	OutcomeStatus = "status"
	OutcomeError  = "error"
)

// Client sends JSON requests.
type Client struct {
	doer         Doer
	baseURL      string
	timeout      time.Duration
	maxBodyBytes int64
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithDoer sets the HTTP client. Defaults to an *http.Client using the
// configured timeout.
func WithDoer(d Doer) Option {
	return func(c *Client) {
		c.doer = d
	}
}

// WithBaseURL resolves relative request URLs against base.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithMaxBodyBytes caps how much of a response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		c.maxBodyBytes = n
	}
}

// WithLogger sets the diagnostics logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records requests into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTracerName sets the tracer name used for spans.
func WithTracerName(name string) Option {
	return func(c *Client) {
		c.tracer = otel.Tracer(name)
	}
}

// New returns a Client.
func New(opts ...Option) *Client {
	c := &Client{maxBodyBytes: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(c)
	}
	if c.doer == nil {
		c.doer = &http.Client{Timeout: c.timeout}
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(defaultTracerName)
	}
	c.logger = logging.OrDefault(c.logger)
	return c
}

// PostJSON posts body encoded as JSON and returns the parsed response body.
// The response status is not checked.
func (c *Client) PostJSON(ctx context.Context, rawURL string, body any) (json.RawMessage, error) {
	data, err := json.Marshal(body)
	if err != nil {
		c.logger.Error("Fetch error", "method", http.MethodPost, "url", rawURL, "error", err)
		return nil, err
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	return c.do(ctx, http.MethodPost, rawURL, header, data, false)
}

// GetJSON fetches url and returns the parsed response body. A non-2xx status
// returns *StatusError.
func (c *Client) GetJSON(ctx context.Context, rawURL string, opts *Options) (json.RawMessage, error) {
	var header http.Header
	if opts != nil {
		header = opts.Header.Clone()
	}
	return c.do(ctx, http.MethodGet, rawURL, header, nil, true)
}

func (c *Client) do(ctx context.Context, method, rawURL string, header http.Header, body []byte, checkStatus bool) (json.RawMessage, error) {
	start := time.Now()

	target, err := c.resolve(rawURL)
	if err != nil {
		c.fail(method, rawURL, OutcomeError, start, err)
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "fetch "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", target),
		),
	)
	defer span.End()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		c.failSpan(span, err)
		c.fail(method, target, OutcomeError, start, err)
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.doer.Do(req)
	if err != nil {
		c.failSpan(span, err)
		c.fail(method, target, OutcomeError, start, err)
		return nil, err
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if checkStatus && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBodyBytes))
		err := &StatusError{StatusCode: resp.StatusCode}
		c.failSpan(span, err)
		c.fail(method, target, OutcomeStatus, start, err)
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		c.failSpan(span, err)
		c.fail(method, target, OutcomeError, start, err)
		return nil, err
	}

	var msg json.RawMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.failSpan(span, err)
		c.fail(method, target, OutcomeError, start, err)
		return nil, err
	}

	c.metrics.RecordFetch(method, OutcomeOK, time.Since(start))
	c.logger.Debug("fetch complete", "method", method, "url", target, "status", resp.StatusCode)
	return msg, nil
}

// resolve joins a relative URL with the base URL.
func (c *Client) resolve(rawURL string) (string, error) {
	if c.baseURL == "" {
		return rawURL, nil
	}
	ref, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("fetch: parse url %q: %w", rawURL, err)
	}
	if ref.IsAbs() {
		return rawURL, nil
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("fetch: parse base url %q: %w", c.baseURL, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func (c *Client) fail(method, target, outcome string, start time.Time, err error) {
	c.metrics.RecordFetch(method, outcome, time.Since(start))
	c.logger.Error("Fetch error", "method", method, "url", target, "error", err)
}

func (c *Client) failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
