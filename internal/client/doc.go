/*
Package client implements the resilient HTTP client used for every
inter-service call in the gateway.

# Overview

Each Client is bound to one peer service and wraps every call with a
per-attempt timeout, bounded retries with exponential backoff, and a
circuit breaker. Callers see either a decoded response or one typed
error describing exactly what went wrong.

# Features

  - Per-attempt timeout enforced by the underlying HTTP client
  - Bounded retry: MaxRetries retries after the initial attempt
  - Exponential backoff between attempts (base * multiplier^attempt)
  - Circuit breaker counting consecutive exhausted calls
  - Optional outbound rate limiting per peer
  - Typed errors: CircuitOpenError, HTTPStatusError, TransportError,
    ServiceUnavailableError
  - Correlation and request ID propagation headers

# Usage

	c, err := client.New(client.Config{
		ServiceName:       "user",
		BaseURL:           "http://localhost:8001",
		Timeout:           5 * time.Second,
		MaxRetries:        3,
		BackoffBase:       time.Second,
		BackoffMultiplier: 2,
		BreakerThreshold:  5,
		BreakerReset:      30 * time.Second,
	}, client.WithLogger(logger), client.WithMetrics(metrics))
	if err != nil {
		return err
	}

	data, err := c.Get(ctx, "/users/42")
	if err != nil {
		var open *client.CircuitOpenError
		if errors.As(err, &open) {
			// back off for open.RetryAfter
		}
	}

# Error Semantics

A response with any HTTP status is a completed exchange: the call ends
immediately and the breaker stays healthy. Status codes >= 400 surface
as HTTPStatusError without retries. Only transport failures (connection
refused, per-attempt timeout) are retried, and only an
exhausted call counts as a breaker failure. Calls cancelled by the
caller's context record nothing on the breaker.
*/
package client
