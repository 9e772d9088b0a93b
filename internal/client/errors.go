package client

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for errors.Is checks.
var (
	ErrCircuitOpen        = errors.New("circuit open")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// CircuitOpenError is returned when the peer's circuit rejects a call.
// No network request was made and no backoff was applied.
type CircuitOpenError struct {
	Service    string
	RetryAfter time.Duration
}

func (e *CircuitOpenError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: circuit open, retry after %s", e.Service, e.RetryAfter.Round(time.Millisecond))
	}
	return fmt.Sprintf("%s: circuit open", e.Service)
}

// Is reports whether target is ErrCircuitOpen.
func (e *CircuitOpenError) Is(target error) bool {
	return target == ErrCircuitOpen
}

// HTTPStatusError is a well-formed peer response with status >= 400.
// These surface immediately and are never retried.
type HTTPStatusError struct {
	Service    string
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	body := string(e.Body)
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Sprintf("%s: %s %s returned %d: %s", e.Service, e.Method, e.Path, e.StatusCode, body)
}

// IsClientError reports a 4xx status.
func (e *HTTPStatusError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// IsServerError reports a 5xx status.
func (e *HTTPStatusError) IsServerError() bool {
	return e.StatusCode >= 500
}

// TransportError wraps a single attempt's network failure: connection
// refused or reset, timeout, DNS failure, or a malformed response.
type TransportError struct {
	Service string
	Op      string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Service, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceUnavailableError is returned after every transport attempt failed.
// Err holds the last attempt's transport error.
type ServiceUnavailableError struct {
	Service  string
	Attempts int
	Err      error
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("%s: unavailable after %d attempts: %v", e.Service, e.Attempts, e.Err)
}

func (e *ServiceUnavailableError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrServiceUnavailable.
func (e *ServiceUnavailableError) Is(target error) bool {
	return target == ErrServiceUnavailable
}
