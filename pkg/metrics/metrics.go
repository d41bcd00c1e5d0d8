// Package metrics exposes Prometheus collectors for the page helpers.
//
// Every method is safe on a nil *Metrics, so components take an optional
// *Metrics and record unconditionally.
//
// Metrics collected:
//   - pagekit_url_commits_total: Counter of address commits by result
//   - pagekit_storage_operations_total: Counter of storage operations by op and result
//   - pagekit_dom_missing_elements_total: Counter of lookups that found nothing
//   - pagekit_fetch_requests_total: Counter of JSON requests by method and outcome
//   - pagekit_fetch_duration_seconds: Histogram of JSON request duration
//   - pagekit_live_sessions: Gauge of connected live sessions
//   - pagekit_live_patches_sent_total: Counter of patches pushed to live sessions
//   - pagekit_http_requests_total: Counter of served requests by method, route and code
//   - pagekit_http_request_duration_seconds: Histogram of served request duration
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "pagekit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "pagekit",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors.
type Metrics struct {
	urlCommits      *prometheus.CounterVec
	storageOps      *prometheus.CounterVec
	missingElements prometheus.Counter
	fetchRequests   *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	liveSessions    prometheus.Gauge
	patchesSent     prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New registers the collectors and returns them.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		urlCommits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "url_commits_total",
			Help:        "Total number of query string commits",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		storageOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "storage_operations_total",
			Help:        "Total number of storage operations",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "result"}),

		missingElements: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dom_missing_elements_total",
			Help:        "Total number of element lookups that found nothing",
			ConstLabels: config.ConstLabels,
		}),

		fetchRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fetch_requests_total",
			Help:        "Total number of JSON requests",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "outcome"}),

		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fetch_duration_seconds",
			Help:        "JSON request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"method"}),

		liveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_sessions",
			Help:        "Number of connected live sessions",
			ConstLabels: config.ConstLabels,
		}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_patches_sent_total",
			Help:        "Total number of patches sent to live sessions",
			ConstLabels: config.ConstLabels,
		}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests served",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "route", "code"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"method", "route"}),
	}
}

// Result labels.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// RecordCommit counts one address commit.
func (m *Metrics) RecordCommit(err error) {
	if m == nil {
		return
	}
	m.urlCommits.WithLabelValues(result(err)).Inc()
}

// RecordStorage counts one storage operation ("get", "set", "remove").
func (m *Metrics) RecordStorage(op string, ok bool) {
	if m == nil {
		return
	}
	res := ResultOK
	if !ok {
		res = ResultError
	}
	m.storageOps.WithLabelValues(op, res).Inc()
}

// RecordMissingElement counts one lookup that found nothing.
func (m *Metrics) RecordMissingElement() {
	if m == nil {
		return
	}
	m.missingElements.Inc()
}

// RecordFetch counts one JSON request. Outcome is "ok", "status" or "error".
func (m *Metrics) RecordFetch(method, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.fetchRequests.WithLabelValues(method, outcome).Inc()
	m.fetchDuration.WithLabelValues(method).Observe(d.Seconds())
}

// SessionOpened increments the live session gauge.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.liveSessions.Inc()
}

// SessionClosed decrements the live session gauge.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.liveSessions.Dec()
}

// RecordPatches counts patches sent to a live session.
func (m *Metrics) RecordPatches(n int) {
	if m == nil {
		return
	}
	m.patchesSent.Add(float64(n))
}

// RecordRequest counts one served HTTP request. Route is the matched route
// pattern, not the raw path.
func (m *Metrics) RecordRequest(method, route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
