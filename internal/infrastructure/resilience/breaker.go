package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned by Allow when the circuit rejects a call.
var ErrOpen = errors.New("circuit breaker is open")

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures the circuit breaker behavior
type Settings struct {
	// Threshold is the number of consecutive failed calls that opens the circuit
	Threshold uint32
	// ResetTimeout is the period of the open state before a trial call is allowed
	ResetTimeout time.Duration
	// OnStateChange is called whenever the state changes. It runs while the
	// breaker lock is held and must not block.
	OnStateChange func(name string, from State, to State)
}

// Status is a point-in-time snapshot of the breaker
type Status struct {
	State               State
	ConsecutiveFailures uint32
	RetryAfter          time.Duration
}

// Breaker tracks consecutive call failures against a peer service.
//
// A call is admitted via Allow, which returns a generation token. The
// outcome is reported back with RecordSuccess or RecordFailure carrying
// that token; results from a generation that ended while the call was in
// flight are discarded. The failure unit is a whole call that exhausted
// its transport attempts, never an individual attempt, and any completed
// exchange resets the count. No lock is held while a call is in flight.
type Breaker struct {
	name     string
	settings Settings

	mu         sync.Mutex
	state      State
	generation uint64
	failures   uint32
	openedAt   time.Time
	trial      bool
}

// New creates a new circuit breaker with the given settings
func New(name string, settings Settings) *Breaker {
	// Set default values
	if settings.Threshold == 0 {
		settings.Threshold = 5
	}
	if settings.ResetTimeout == 0 {
		settings.ResetTimeout = 30 * time.Second
	}

	return &Breaker{
		name:     name,
		settings: settings,
		state:    StateClosed,
	}
}

// Name returns the name of the circuit breaker
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state of the circuit breaker.
// An elapsed reset timeout does not show here: the open to half-open
// transition happens on the next admitted call, not on inspection.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

// Status returns a snapshot of the breaker for introspection
func (b *Breaker) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Status{
		State:               b.state,
		ConsecutiveFailures: b.failures,
		RetryAfter:          b.retryAfter(time.Now()),
	}
}

// RetryAfter returns the remaining open cool-off, or zero when not open
func (b *Breaker) RetryAfter() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.retryAfter(time.Now())
}

// Allow reports whether a call may proceed and claims the half-open trial
// slot when applicable. The returned generation must be passed to
// RecordSuccess, RecordFailure, or Abandon.
func (b *Breaker) Allow() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	switch b.state {
	case StateOpen:
		if now.Sub(b.openedAt) < b.settings.ResetTimeout {
			return b.generation, ErrOpen
		}
		b.setState(StateHalfOpen, now)
		b.trial = true
	case StateHalfOpen:
		if b.trial {
			return b.generation, ErrOpen
		}
		b.trial = true
	}

	return b.generation, nil
}

// RecordSuccess notes a completed exchange with the peer
func (b *Breaker) RecordSuccess(generation uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if generation != b.generation {
		return
	}

	b.failures = 0
	if b.state == StateHalfOpen {
		b.trial = false
		b.setState(StateClosed, time.Now())
	}
}

// RecordFailure notes a call that exhausted its transport attempts
func (b *Breaker) RecordFailure(generation uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if generation != b.generation {
		return
	}

	now := time.Now()
	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.settings.Threshold {
			b.setState(StateOpen, now)
		}
	case StateHalfOpen:
		b.failures++
		b.trial = false
		b.setState(StateOpen, now)
	}
}

// Abandon releases a claimed trial slot without recording an outcome.
// Used when a call is cancelled by its caller mid-flight.
func (b *Breaker) Abandon(generation uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if generation != b.generation {
		return
	}

	if b.state == StateHalfOpen {
		b.trial = false
	}
}

// retryAfter computes remaining cool-off. Caller must hold the lock.
func (b *Breaker) retryAfter(now time.Time) time.Duration {
	if b.state != StateOpen {
		return 0
	}
	remaining := b.settings.ResetTimeout - now.Sub(b.openedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// setState changes the state of the circuit breaker. Caller must hold the lock.
func (b *Breaker) setState(state State, now time.Time) {
	if b.state == state {
		return
	}

	prev := b.state
	b.state = state
	b.generation++

	switch state {
	case StateOpen:
		b.openedAt = now
	case StateClosed:
		b.openedAt = time.Time{}
		b.failures = 0
	}

	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, prev, state)
	}
}
