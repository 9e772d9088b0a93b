package types

import "time"

// BreakerEvent records a circuit breaker state transition.
type BreakerEvent struct {
	Service   string    `json:"service"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Timestamp time.Time `json:"timestamp"`
}
