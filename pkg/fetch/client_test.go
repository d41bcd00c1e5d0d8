package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/pagekit/internal/logging"
	"github.com/vango-dev/pagekit/pkg/metrics"
)

type captured struct {
	Method      string
	ContentType string
	Body        string
	Header      http.Header
}

func newTestServer(t *testing.T, got *captured) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/api/test", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*got = captured{Method: r.Method, ContentType: r.Header.Get("Content-Type"), Body: string(body), Header: r.Header.Clone()}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"success"}`)
	})
	r.Post("/api/rejected", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"bad input"}`)
	})
	r.Get("/api/test", func(w http.ResponseWriter, r *http.Request) {
		*got = captured{Method: r.Method, Header: r.Header.Clone()}
		io.WriteString(w, `{"data":"test"}`)
	})
	r.Get("/api/html", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>not json</html>")
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestPostJSON(t *testing.T) {
	var got captured
	srv := newTestServer(t, &got)
	c := New()

	res, err := c.PostJSON(context.Background(), srv.URL+"/api/test", map[string]string{"name": "test"})
	if err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}
	if string(res) != `{"status":"success"}` {
		t.Errorf("response = %s", res)
	}
	if got.Method != http.MethodPost {
		t.Errorf("method = %q, want POST", got.Method)
	}
	if got.ContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got.ContentType)
	}
	if got.Body != `{"name":"test"}` {
		t.Errorf("body = %q, want %q", got.Body, `{"name":"test"}`)
	}
}

func TestPostJSONIgnoresStatus(t *testing.T) {
	srv := newTestServer(t, new(captured))
	rec, logger := logging.NewRecorder()
	c := New(WithLogger(logger))

	res, err := c.PostJSON(context.Background(), srv.URL+"/api/rejected", struct{}{})
	if err != nil {
		t.Fatalf("PostJSON() error = %v, want parsed body", err)
	}
	if string(res) != `{"error":"bad input"}` {
		t.Errorf("response = %s", res)
	}
	if n := rec.Count(slog.LevelError); n != 0 {
		t.Errorf("error records = %d, want 0", n)
	}
}

func TestPostJSONNetworkError(t *testing.T) {
	networkErr := errors.New("Network error")
	rec, logger := logging.NewRecorder()
	c := New(WithLogger(logger), WithDoer(doerFunc(func(*http.Request) (*http.Response, error) {
		return nil, networkErr
	})))

	_, err := c.PostJSON(context.Background(), "http://example.invalid/api/test", map[string]any{})
	if !errors.Is(err, networkErr) {
		t.Fatalf("PostJSON() error = %v, want %v", err, networkErr)
	}
	if rec.Count(slog.LevelError) != 1 {
		t.Errorf("error records = %d, want 1", rec.Count(slog.LevelError))
	}
}

func TestGetJSON(t *testing.T) {
	var got captured
	srv := newTestServer(t, &got)
	c := New()

	res, err := c.GetJSON(context.Background(), srv.URL+"/api/test", &Options{
		Header: http.Header{"X-Request-Id": {"abc"}},
	})
	if err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if string(res) != `{"data":"test"}` {
		t.Errorf("response = %s", res)
	}
	if got.Method != http.MethodGet {
		t.Errorf("method = %q", got.Method)
	}
	if got.Header.Get("X-Request-Id") != "abc" {
		t.Errorf("X-Request-Id = %q, want abc", got.Header.Get("X-Request-Id"))
	}
}

func TestGetJSONStatusError(t *testing.T) {
	srv := newTestServer(t, new(captured))
	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.WithRegistry(reg))
	rec, logger := logging.NewRecorder()
	c := New(WithLogger(logger), WithMetrics(m))

	_, err := c.GetJSON(context.Background(), srv.URL+"/api/missing", nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("GetJSON() error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", statusErr.StatusCode)
	}
	if err.Error() != "HTTP error! status: 404" {
		t.Errorf("Error() = %q", err.Error())
	}
	if rec.Count(slog.LevelError) != 1 {
		t.Errorf("error records = %d, want 1", rec.Count(slog.LevelError))
	}

	expected := `
# HELP pagekit_fetch_requests_total Total number of JSON requests
# TYPE pagekit_fetch_requests_total counter
pagekit_fetch_requests_total{method="GET",outcome="status"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "pagekit_fetch_requests_total"); err != nil {
		t.Error(err)
	}
}

func TestGetJSONInvalidBody(t *testing.T) {
	srv := newTestServer(t, new(captured))
	rec, logger := logging.NewRecorder()
	c := New(WithLogger(logger))

	_, err := c.GetJSON(context.Background(), srv.URL+"/api/html", nil)
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("GetJSON() error = %v, want *json.SyntaxError", err)
	}
	if rec.Count(slog.LevelError) != 1 {
		t.Errorf("error records = %d, want 1", rec.Count(slog.LevelError))
	}
}

func TestBaseURL(t *testing.T) {
	var got captured
	srv := newTestServer(t, &got)
	c := New(WithBaseURL(srv.URL + "/"))

	if _, err := c.GetJSON(context.Background(), "/api/test", nil); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if got.Method != http.MethodGet {
		t.Error("relative URL was not resolved against the base URL")
	}

	tests := []struct {
		base, ref, want string
	}{
		{"http://api.local", "/x", "http://api.local/x"},
		{"http://api.local/v1/", "items", "http://api.local/v1/items"},
		{"http://api.local", "https://other.local/y", "https://other.local/y"},
	}
	for _, tt := range tests {
		got, err := New(WithBaseURL(tt.base)).resolve(tt.ref)
		if err != nil || got != tt.want {
			t.Errorf("resolve(%q, %q) = %q, %v; want %q", tt.base, tt.ref, got, err, tt.want)
		}
	}
}

func TestTraceContextPropagation(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	var got captured
	srv := newTestServer(t, &got)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), parent)

	if _, err := New().GetJSON(ctx, srv.URL+"/api/test", nil); err != nil {
		t.Fatal(err)
	}
	if tp := got.Header.Get("Traceparent"); !strings.Contains(tp, traceID.String()) {
		t.Errorf("traceparent = %q, want trace id %s", tp, traceID)
	}
}

type page struct {
	Data string `json:"data"`
}

func TestGenericHelpers(t *testing.T) {
	srv := newTestServer(t, new(captured))
	c := New(WithBaseURL(srv.URL))
	ctx := context.Background()

	p, err := Get[page](ctx, c, "/api/test", nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(page{Data: "test"}, p); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}

	res, err := Post[map[string]string](ctx, c, "/api/test", map[string]string{"name": "test"})
	if err != nil {
		t.Fatal(err)
	}
	if res["status"] != "success" {
		t.Errorf("Post result = %v", res)
	}

	if _, err := Get[[]int](ctx, c, "/api/test", nil); err == nil {
		t.Error("decoding an object into []int should fail")
	}
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }
