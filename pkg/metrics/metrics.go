// Package metrics holds the Prometheus collectors for searches and the
// HTTP server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Search metrics
	SearchesTotal      *prometheus.CounterVec
	SearchDuration     *prometheus.HistogramVec
	SearchResultsTotal *prometheus.HistogramVec
	QueryErrorsTotal   *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Config metrics
	ConfigReloadsTotal *prometheus.CounterVec
}

// New creates and registers all metrics in registry. A nil registry gets a
// fresh one.
func New(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: registry,
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "setsearch_searches_total",
				Help: "Total number of set searches",
			},
			[]string{"set", "status"},
		),
		SearchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "setsearch_query_duration_seconds",
				Help:    "Store query duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"set", "mode"},
		),
		SearchResultsTotal: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "setsearch_search_total_count",
				Help:    "Total matching items reported per set search",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"set"},
		),
		QueryErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "setsearch_query_errors_total",
				Help: "Total number of failed store queries",
			},
			[]string{"set", "mode"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "setsearch_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "setsearch_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		ConfigReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "setsearch_config_reloads_total",
				Help: "Total number of configuration reloads",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		m.SearchesTotal,
		m.SearchDuration,
		m.SearchResultsTotal,
		m.QueryErrorsTotal,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ConfigReloadsTotal,
	)
	return m
}

// Registry returns the registry the metrics live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveQuery records one store query of mode ("count" or "select").
func (m *Metrics) ObserveQuery(set, mode string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.SearchDuration.WithLabelValues(set, mode).Observe(d.Seconds())
	if err != nil {
		m.QueryErrorsTotal.WithLabelValues(set, mode).Inc()
	}
}

// ObserveSearch records a finished set search.
func (m *Metrics) ObserveSearch(set string, total int, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	} else {
		m.SearchResultsTotal.WithLabelValues(set).Observe(float64(total))
	}
	m.SearchesTotal.WithLabelValues(set, status).Inc()
}

// ObserveHTTP records a served request.
func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// ObserveReload records a configuration reload attempt.
func (m *Metrics) ObserveReload(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ConfigReloadsTotal.WithLabelValues(status).Inc()
}
