// Package monitoring exposes Prometheus metrics for the sandbox service.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. All record methods are nil-safe
// so components can run without a collector in tests.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Session metrics
	SessionsActive  prometheus.Gauge
	SessionsCreated prometheus.Counter
	LoadsTotal      *prometheus.CounterVec

	// Bridge metrics
	BridgeMessages *prometheus.CounterVec

	// Export metrics
	ExportsCreated *prometheus.CounterVec
	ExportsLive    prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
}

// New creates the collectors and registers them with the default
// registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates the collectors against a specific registerer. Tests use
// a private registry so repeated construction does not collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "framehost_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "framehost_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "framehost_sessions_active",
			Help: "Currently registered sandbox sessions",
		}),
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "framehost_sessions_created_total",
			Help: "Total sandbox sessions created",
		}),
		LoadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "framehost_loads_total",
				Help: "Total document loads by outcome",
			},
			[]string{"status"},
		),
		BridgeMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "framehost_bridge_messages_total",
				Help: "Bridge messages by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		ExportsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "framehost_exports_created_total",
				Help: "Exports staged by mode",
			},
			[]string{"mode"},
		),
		ExportsLive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "framehost_exports_live",
			Help: "Exports currently retrievable",
		}),
		WSConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "framehost_ws_connections",
			Help: "Open bridge WebSocket connections",
		}),
	}
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSessionCreated increments session counters.
func (m *Metrics) RecordSessionCreated() {
	if m == nil {
		return
	}
	m.SessionsCreated.Inc()
	m.SessionsActive.Inc()
}

// RecordSessionDestroyed decrements the active session gauge.
func (m *Metrics) RecordSessionDestroyed() {
	if m == nil {
		return
	}
	m.SessionsActive.Dec()
}

// RecordLoad records a load attempt outcome ("ok" or "error").
func (m *Metrics) RecordLoad(status string) {
	if m == nil {
		return
	}
	m.LoadsTotal.WithLabelValues(status).Inc()
}

// RecordBridgeMessage records a dispatched or discarded bridge message.
func (m *Metrics) RecordBridgeMessage(kind, outcome string) {
	if m == nil {
		return
	}
	m.BridgeMessages.WithLabelValues(kind, outcome).Inc()
}

// RecordExport records a staged export.
func (m *Metrics) RecordExport(mode string) {
	if m == nil {
		return
	}
	m.ExportsCreated.WithLabelValues(mode).Inc()
}

// SetExportsLive updates the retrievable export gauge. Wired as the export
// store's observer so TTL expiry and one-shot revocation are reflected.
func (m *Metrics) SetExportsLive(live int) {
	if m == nil {
		return
	}
	m.ExportsLive.Set(float64(live))
}

// SetWSConnections updates the open connection gauge.
func (m *Metrics) SetWSConnections(delta float64) {
	if m == nil {
		return
	}
	m.WSConnections.Add(delta)
}
