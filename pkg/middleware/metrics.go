package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vango-dev/pagekit/pkg/metrics"
)

// unmatchedRoute labels requests no route matched.
const unmatchedRoute = "unmatched"

// Prometheus creates middleware that records pagekit_http_requests_total and
// pagekit_http_request_duration_seconds. A nil m records nothing.
func Prometheus(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := routePattern(r)
			if route == "" {
				route = unmatchedRoute
			}
			m.RecordRequest(r.Method, route, statusOf(ww), time.Since(start))
		})
	}
}

// routePattern returns the chi route pattern matched for r, or "".
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	return rctx.RoutePattern()
}

// statusOf returns the written status; a handler that never wrote a header
// (or hijacked the connection) counts as 200.
func statusOf(ww chimw.WrapResponseWriter) int {
	if status := ww.Status(); status != 0 {
		return status
	}
	return http.StatusOK
}
