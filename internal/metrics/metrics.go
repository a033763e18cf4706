// Package metrics exposes Prometheus instrumentation for the web client.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects counters and histograms for outbound backend calls
// and inbound page rendering.
type Metrics struct {
	registry *prometheus.Registry

	backendRequests *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	pageRenders     *prometheus.CounterVec
	wsConnections   prometheus.Gauge
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "classboard",
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Outbound classroom backend requests by operation and status code.",
		}, []string{"operation", "status"}),
		backendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "classboard",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Outbound classroom backend request latency by operation.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"operation"}),
		pageRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "classboard",
			Subsystem: "web",
			Name:      "page_renders_total",
			Help:      "Rendered pages by template name.",
		}, []string{"template"}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "classboard",
			Subsystem: "web",
			Name:      "ws_connections",
			Help:      "Currently open thread websocket connections.",
		}),
	}

	m.registry.MustRegister(
		m.backendRequests,
		m.backendDuration,
		m.pageRenders,
		m.wsConnections,
	)

	return m
}

// ObserveBackendRequest records one outbound backend call.
// A status of 0 means the request failed before a response arrived.
func (m *Metrics) ObserveBackendRequest(operation string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.backendRequests.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	m.backendDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObservePageRender records one rendered template.
func (m *Metrics) ObservePageRender(template string) {
	if m == nil {
		return
	}
	m.pageRenders.WithLabelValues(template).Inc()
}

// WSOpened records a new websocket connection.
func (m *Metrics) WSOpened() {
	if m == nil {
		return
	}
	m.wsConnections.Inc()
}

// WSClosed records a closed websocket connection.
func (m *Metrics) WSClosed() {
	if m == nil {
		return
	}
	m.wsConnections.Dec()
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
