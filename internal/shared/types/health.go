package types

import "time"

// PeerStatus describes a registered peer and its circuit state.
type PeerStatus struct {
	Service             string  `json:"service"`
	BaseURL             string  `json:"base_url"`
	Breaker             string  `json:"breaker"`
	ConsecutiveFailures uint32  `json:"consecutive_failures"`
	RetryAfterSeconds   float64 `json:"retry_after_seconds,omitempty"`
}

// PeerHealth reports one dependency's reachability.
type PeerHealth struct {
	Service   string `json:"service"`
	Healthy   bool   `json:"healthy"`
	Breaker   string `json:"breaker"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// HealthReport aggregates peer health checks.
type HealthReport struct {
	Status    string       `json:"status"`
	Peers     []PeerHealth `json:"peers"`
	CheckedAt time.Time    `json:"checked_at"`
}
