// Package middleware provides net/http middleware for the pagekit server.
//
// This package includes:
//   - OpenTelemetry server spans with trace context extraction
//   - Prometheus request metrics keyed by chi route pattern
//   - Structured request logging on slog
//
// All three take the route pattern from chi's routing context once the
// request has been routed, so they must wrap a chi router:
//
//	r := chi.NewRouter()
//	r.Use(
//	    middleware.OpenTelemetry(middleware.WithTracerName("pagekit")),
//	    middleware.Prometheus(m),
//	    middleware.RequestLogger(logger),
//	)
//
// # Context Propagation
//
// OpenTelemetry extracts the incoming trace context with the global
// propagator, so a page's fetch.Client call and the handler it reaches share
// one trace.
package middleware
