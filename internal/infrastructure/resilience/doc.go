/*
Package resilience provides the circuit breaker and backoff primitives for
peer service calls.

# Overview

This package implements the circuit breaker pattern to prevent cascading
failures: once a peer exhausts enough consecutive calls, further calls fail
fast without touching the network until a cool-off passes and a single
trial probes recovery. It also provides the exponential backoff schedule
used between retry attempts.

# Features

- Three-state circuit breaker (Closed, Open, Half-Open)
- Failure unit is a whole exhausted call, not an individual attempt
- Single trial request in half-open state
- Generation tokens discard results from calls admitted under a lapsed state
- State change callbacks for monitoring
- Context-aware sleep for cancellable backoff

# Usage

	breaker := resilience.New("user", resilience.Settings{
		Threshold:    5,
		ResetTimeout: 30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			log.Printf("breaker %s: %s -> %s", name, from, to)
		},
	})

	gen, err := breaker.Allow()
	if err != nil {
		return err // fail fast, no network call
	}
	if callErr := doCall(); callErr != nil {
		breaker.RecordFailure(gen)
	} else {
		breaker.RecordSuccess(gen)
	}

# States

- Closed: normal operation, calls pass through, consecutive failures counted
- Open: calls rejected immediately until the reset timeout elapses
- Half-Open: exactly one trial call probes the peer

# Pattern

	Closed --[threshold failures]-> Open --[reset timeout, next call]-> Half-Open
	   ^                             ^                                      |
	   |                             +---------[trial failure]--------------+
	   +---------------------------------------[trial success]-------------+
*/
package resilience
