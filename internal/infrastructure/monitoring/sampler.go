package monitoring

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// latencySampler keeps a bounded window of recent call durations per peer.
// Prometheus histograms serve alerting; this window feeds the JSON snapshot
// with exact quantiles over recent traffic.
type latencySampler struct {
	mu    sync.Mutex
	size  int
	rings map[string]*ring
}

type ring struct {
	values []float64 // seconds
	next   int
	full   bool
}

func newLatencySampler(size int) *latencySampler {
	if size <= 0 {
		size = 512
	}
	return &latencySampler{
		size:  size,
		rings: make(map[string]*ring),
	}
}

// Observe records one call duration for a peer.
func (s *latencySampler) Observe(service string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rings[service]
	if !ok {
		r = &ring{values: make([]float64, s.size)}
		s.rings[service] = r
	}

	r.values[r.next] = d.Seconds()
	r.next++
	if r.next == len(r.values) {
		r.next = 0
		r.full = true
	}
}

// window returns a copy of the recorded samples for a peer.
func (s *latencySampler) window(service string) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rings[service]
	if !ok {
		return nil
	}

	n := r.next
	if r.full {
		n = len(r.values)
	}
	out := make([]float64, n)
	copy(out, r.values[:n])
	return out
}

// services returns the peers with at least one sample.
func (s *latencySampler) services() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.rings))
	for name := range s.rings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PeerLatency summarizes recent call latency for one peer.
type PeerLatency struct {
	Count int     `json:"count"`
	P50MS float64 `json:"p50_ms"`
	P95MS float64 `json:"p95_ms"`
	P99MS float64 `json:"p99_ms"`
}

// quantiles computes latency quantiles over the peer's sample window.
func (s *latencySampler) quantiles(service string) PeerLatency {
	samples := s.window(service)
	if len(samples) == 0 {
		return PeerLatency{}
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	toMS := func(q float64) float64 {
		return stat.Quantile(q, stat.Empirical, sorted, nil) * 1000
	}

	return PeerLatency{
		Count: len(sorted),
		P50MS: toMS(0.50),
		P95MS: toMS(0.95),
		P99MS: toMS(0.99),
	}
}
