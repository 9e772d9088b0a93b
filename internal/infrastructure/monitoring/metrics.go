package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec
	ActiveRequests  prometheus.Gauge

	// Peer call metrics
	PeerCalls    *prometheus.CounterVec
	PeerDuration *prometheus.HistogramVec
	PeerRetries  *prometheus.CounterVec
	PeerErrors   *prometheus.CounterVec

	// Circuit breaker metrics
	BreakerState       *prometheus.GaugeVec
	BreakerTransitions *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSEvents      prometheus.Counter

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
	gatherer  prometheus.Gatherer

	// Latency window for quantile snapshots
	sampler *latencySampler

	// Snapshot counters for the JSON API
	snapshot snapshotCounters
	mu       sync.RWMutex
}

type snapshotCounters struct {
	TotalRequests int64
	TotalErrors   int64
	TotalDuration float64 // sum of all request durations in seconds
	RequestCount  int64
}

// NewMetrics creates a metrics collector registered on the default registry
func NewMetrics() *Metrics {
	m := newMetricsWith(prometheus.DefaultRegisterer)
	m.gatherer = prometheus.DefaultGatherer
	return m
}

// NewMetricsWith creates a metrics collector on a dedicated registry.
// Tests pass a fresh registry to avoid duplicate registration panics.
func NewMetricsWith(reg *prometheus.Registry) *Metrics {
	m := newMetricsWith(reg)
	m.gatherer = reg
	return m
}

func newMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),
		sampler:   newLatencySampler(512),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "synapse_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "synapse_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "synapse_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "synapse_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ActiveRequests: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "synapse_active_requests",
				Help: "Number of in-flight HTTP requests",
			},
		),

		// Peer call metrics
		PeerCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "synapse_peer_calls_total",
				Help: "Total number of peer service calls",
			},
			[]string{"service", "method", "code"},
		),
		PeerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "synapse_peer_call_duration_seconds",
				Help:    "Peer call duration in seconds, including retries",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"service", "method"},
		),
		PeerRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "synapse_peer_retries_total",
				Help: "Total number of peer call retry attempts",
			},
			[]string{"service"},
		),
		PeerErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "synapse_peer_errors_total",
				Help: "Total number of peer call errors",
			},
			[]string{"service", "method", "error_type"},
		),

		// Circuit breaker metrics
		BreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "synapse_breaker_state",
				Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"service"},
		),
		BreakerTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "synapse_breaker_transitions_total",
				Help: "Total number of circuit breaker state transitions",
			},
			[]string{"service", "to"},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "synapse_ws_connections",
				Help: "Number of active WebSocket subscribers",
			},
		),
		WSEvents: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "synapse_ws_events_total",
				Help: "Total number of breaker events streamed",
			},
		),

		// System metrics
		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "synapse_uptime_seconds",
				Help: "Gateway uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// Handler returns the Prometheus scrape endpoint for this collector.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an inbound HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordPeerCall records one completed peer call, including its retries
func (m *Metrics) RecordPeerCall(service, method, code string, duration time.Duration) {
	m.PeerCalls.WithLabelValues(service, method, code).Inc()
	m.PeerDuration.WithLabelValues(service, method).Observe(duration.Seconds())
	m.sampler.Observe(service, duration)
}

// RecordPeerRetry records a single retry attempt against a peer
func (m *Metrics) RecordPeerRetry(service string) {
	m.PeerRetries.WithLabelValues(service).Inc()
}

// RecordPeerError records a peer call error by type
func (m *Metrics) RecordPeerError(service, method, errorType string) {
	m.PeerErrors.WithLabelValues(service, method, errorType).Inc()
}

// SetBreakerState sets the breaker state gauge for a peer
func (m *Metrics) SetBreakerState(service string, state int) {
	m.BreakerState.WithLabelValues(service).Set(float64(state))
}

// RecordBreakerTransition records a breaker state change
func (m *Metrics) RecordBreakerTransition(service, to string) {
	m.BreakerTransitions.WithLabelValues(service, to).Inc()
}

// IncWSConnections increments WebSocket subscriber count
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket subscriber count
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}

// RecordWSEvent records a streamed breaker event
func (m *Metrics) RecordWSEvent() {
	m.WSEvents.Inc()
}
