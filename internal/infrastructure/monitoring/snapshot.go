package monitoring

import "time"

// Snapshot is the JSON metrics view served by the gateway.
type Snapshot struct {
	UptimeSeconds float64                `json:"uptime_seconds"`
	TotalRequests int64                  `json:"total_requests"`
	TotalErrors   int64                  `json:"total_errors"`
	AvgLatencyMS  float64                `json:"avg_latency_ms"`
	Peers         map[string]PeerLatency `json:"peers"`
}

// GetSnapshot assembles current metric values with per-peer latency quantiles.
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	counters := m.snapshot
	m.mu.RUnlock()

	snap := Snapshot{
		UptimeSeconds: time.Since(m.startTime).Seconds(),
		TotalRequests: counters.TotalRequests,
		TotalErrors:   counters.TotalErrors,
		Peers:         make(map[string]PeerLatency),
	}

	if counters.RequestCount > 0 {
		snap.AvgLatencyMS = counters.TotalDuration / float64(counters.RequestCount) * 1000
	}

	for _, service := range m.sampler.services() {
		snap.Peers[service] = m.sampler.quantiles(service)
	}

	return snap
}
