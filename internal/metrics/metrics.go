// Package metrics exposes Prometheus collectors for the workspace shell.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the shell's collectors around a dedicated registry so
// tests can build isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	providerCalls    *prometheus.CounterVec
	providerFailures *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
}

// New creates the collector set and registers it.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		httpInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "atrium",
				Subsystem: "http",
				Name:      "inflight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "atrium",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "atrium",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"method", "path"},
		),

		providerCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "atrium",
				Subsystem: "registry",
				Name:      "provider_calls_total",
				Help:      "Total number of provider fan-out calls.",
			},
			[]string{"kind", "provider"},
		),
		providerFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "atrium",
				Subsystem: "registry",
				Name:      "provider_failures_total",
				Help:      "Provider calls that failed and were degraded to a zero contribution.",
			},
			[]string{"kind", "provider"},
		),
		providerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "atrium",
				Subsystem: "registry",
				Name:      "provider_call_duration_seconds",
				Help:      "Duration of individual provider calls.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"kind", "provider"},
		),
	}

	m.registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.providerCalls,
		m.providerFailures,
		m.providerDuration,
	)
	return m
}

// ProviderCall implements registry.Hooks.
func (m *Metrics) ProviderCall(kind, provider string, elapsed time.Duration, err error) {
	m.providerCalls.WithLabelValues(kind, provider).Inc()
	m.providerDuration.WithLabelValues(kind, provider).Observe(elapsed.Seconds())
	if err != nil {
		m.providerFailures.WithLabelValues(kind, provider).Inc()
	}
}

// Handler returns the /metrics endpoint for this collector set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps an HTTP handler with request counting, duration
// and in-flight gauges. Path should be the route template, not the raw
// URL, to keep label cardinality bounded.
func (m *Metrics) InstrumentHandler(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		m.httpRequests.WithLabelValues(r.Method, path, strconv.Itoa(sw.status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
