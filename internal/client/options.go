package client

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/logging"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/monitoring"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/resilience"
)

// Option configures a Client's dependencies. Behavior comes from Config;
// options only supply collaborators.
type Option func(*Client)

// WithLogger attaches a structured logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics attaches a metrics collector.
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// WithBreaker substitutes the circuit breaker built from Config. The
// registry uses this to wire state change callbacks before construction.
func WithBreaker(breaker *resilience.Breaker) Option {
	return func(c *Client) {
		c.breaker = breaker
	}
}

// WithLimiter sets an outbound rate limiter, overriding Config.RateLimit.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// WithTransport overrides the HTTP transport. Tests use this to script
// peer outcomes without a network.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithSleep overrides the backoff sleep. Tests use this to observe the
// retry schedule without waiting it out.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) {
		c.sleep = sleep
	}
}
