package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/vango-dev/pagekit/pkg/metrics"
)

func newRouter(mw ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(mw...)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chi.URLParam(r, "id")))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	r.Get("/silent", func(w http.ResponseWriter, r *http.Request) {})
	return r
}

func serve(h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, vs := range header {
		req.Header[k] = vs
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.WithRegistry(reg))
	h := newRouter(Prometheus(m))

	serve(h, http.MethodGet, "/items/1", nil)
	serve(h, http.MethodGet, "/items/2", nil)
	serve(h, http.MethodGet, "/boom", nil)
	serve(h, http.MethodGet, "/silent", nil)
	serve(h, http.MethodGet, "/nowhere", nil)

	expected := `
# HELP pagekit_http_requests_total Total number of HTTP requests served
# TYPE pagekit_http_requests_total counter
pagekit_http_requests_total{code="200",method="GET",route="/items/{id}"} 2
pagekit_http_requests_total{code="200",method="GET",route="/silent"} 1
pagekit_http_requests_total{code="404",method="GET",route="unmatched"} 1
pagekit_http_requests_total{code="500",method="GET",route="/boom"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "pagekit_http_requests_total"); err != nil {
		t.Error(err)
	}
}

func TestPrometheusNilMetrics(t *testing.T) {
	rec := serve(newRouter(Prometheus(nil)), http.MethodGet, "/items/7", nil)
	if rec.Body.String() != "7" {
		t.Errorf("body = %q, want 7", rec.Body.String())
	}
}

func TestOpenTelemetryExtractsTraceContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	const traceID = "4bf92f3577b34da6a3ce929d0e0e4736"
	var got string

	r := chi.NewRouter()
	r.Use(OpenTelemetry(WithTracerName("test")))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		got = SpanFromRequest(r).SpanContext().TraceID().String()
	})

	serve(r, http.MethodGet, "/items/1", http.Header{
		"Traceparent": {"00-" + traceID + "-00f067aa0ba902b7-01"},
	})
	if got != traceID {
		t.Errorf("handler trace id = %q, want %q", got, traceID)
	}
}

func TestOpenTelemetryFilter(t *testing.T) {
	called := false
	h := newRouter(OpenTelemetry(WithFilter(func(r *http.Request) bool {
		called = true
		return r.URL.Path != "/silent"
	})))

	if rec := serve(h, http.MethodGet, "/items/3", nil); rec.Body.String() != "3" {
		t.Errorf("body = %q, want 3", rec.Body.String())
	}
	if !called {
		t.Error("filter was not consulted")
	}
	if rec := serve(h, http.MethodGet, "/silent", nil); rec.Code != http.StatusOK {
		t.Errorf("filtered request status = %d", rec.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := newRouter(RequestLogger(logger))

	serve(h, http.MethodGet, "/items/1", nil)
	serve(h, http.MethodGet, "/boom", nil)

	out := buf.String()
	if !strings.Contains(out, "level=DEBUG msg=request method=GET path=/items/1 status=200") {
		t.Errorf("missing debug line:\n%s", out)
	}
	if !strings.Contains(out, "level=ERROR msg=request method=GET path=/boom status=500") {
		t.Errorf("missing error line:\n%s", out)
	}
}
