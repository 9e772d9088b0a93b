package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/logging"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/monitoring"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/resilience"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/tracing"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/shared/id"
)

// Config defines one peer's client behavior. Immutable after New.
type Config struct {
	ServiceName       string
	BaseURL           string
	Timeout           time.Duration // per-attempt request timeout
	MaxRetries        int           // retries after the initial attempt
	BackoffBase       time.Duration
	BackoffMultiplier float64
	BackoffMax        time.Duration // zero means uncapped
	BreakerThreshold  int
	BreakerReset      time.Duration
	RateLimit         float64 // outbound requests per second, zero disables
	RateBurst         int
}

// Validate checks configuration invariants.
func (c Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("client config: service name required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("client config: base URL required for %s", c.ServiceName)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("client config %s: timeout must be positive, got %s", c.ServiceName, c.Timeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("client config %s: max retries must be >= 0, got %d", c.ServiceName, c.MaxRetries)
	}
	if c.MaxRetries > 0 && c.BackoffBase <= 0 {
		return fmt.Errorf("client config %s: backoff base must be positive, got %s", c.ServiceName, c.BackoffBase)
	}
	if c.BackoffMultiplier < 1 {
		return fmt.Errorf("client config %s: backoff multiplier must be >= 1, got %g", c.ServiceName, c.BackoffMultiplier)
	}
	if c.BreakerThreshold <= 0 {
		return fmt.Errorf("client config %s: breaker threshold must be positive, got %d", c.ServiceName, c.BreakerThreshold)
	}
	if c.BreakerReset <= 0 {
		return fmt.Errorf("client config %s: breaker reset must be positive, got %s", c.ServiceName, c.BreakerReset)
	}
	return nil
}

// Client calls one peer service with bounded retries, exponential backoff,
// and circuit breaking. Safe for concurrent use.
type Client struct {
	cfg       Config
	resty     *resty.Client
	breaker   *resilience.Breaker
	backoff   resilience.Backoff
	limiter   *rate.Limiter
	logger    *logging.Logger
	metrics   *monitoring.Metrics
	transport http.RoundTripper
	sleep     func(ctx context.Context, d time.Duration) error
}

// New creates a client for one peer. Config is validated here; invalid
// settings never reach a live call.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg: cfg,
		backoff: resilience.Backoff{
			Base:       cfg.BackoffBase,
			Multiplier: cfg.BackoffMultiplier,
			Max:        cfg.BackoffMax,
		},
		sleep: resilience.Sleep,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	if c.breaker == nil {
		c.breaker = resilience.New(cfg.ServiceName, resilience.Settings{
			Threshold:    uint32(cfg.BreakerThreshold),
			ResetTimeout: cfg.BreakerReset,
		})
	}
	if c.limiter == nil && cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	c.resty = newRestyClient(cfg, c.transport)

	return c, nil
}

// newRestyClient assembles the HTTP stack: retryablehttp's pooled transport
// wrapped with transparent gzip. Retries stay disabled at both levels
// because the execute loop owns the attempt schedule.
func newRestyClient(cfg Config, transport http.RoundTripper) *resty.Client {
	if transport == nil {
		retryClient := retryablehttp.NewClient()
		retryClient.RetryMax = 0
		retryClient.Logger = nil // Disable logging
		transport = gzhttp.Transport(retryClient.HTTPClient.Transport)
	}

	restyClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", "synapse-gateway/1.0").
		SetHeader("Accept", "application/json")

	restyClient.SetTransport(transport)
	restyClient.JSONMarshal = sonic.Marshal
	restyClient.JSONUnmarshal = sonic.Unmarshal

	return restyClient
}

// Name returns the peer service name.
func (c *Client) Name() string {
	return c.cfg.ServiceName
}

// BaseURL returns the peer base URL.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// Breaker exposes the circuit breaker for introspection.
func (c *Client) Breaker() *resilience.Breaker {
	return c.breaker
}

// Get issues a GET and returns the parsed JSON object.
func (c *Client) Get(ctx context.Context, path string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST with a JSON body and returns the parsed JSON object.
func (c *Client) Post(ctx context.Context, path string, body any) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Put issues a PUT with a JSON body and returns the parsed JSON object.
func (c *Client) Put(ctx context.Context, path string, body any) (map[string]any, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

// Delete issues a DELETE and returns the parsed JSON object.
func (c *Client) Delete(ctx context.Context, path string) (map[string]any, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

// Do executes one resilient call and returns the parsed JSON object.
// An empty 2xx body yields an empty map.
func (c *Client) Do(ctx context.Context, method, path string, body any) (map[string]any, error) {
	raw, err := c.execute(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return map[string]any{}, nil
	}

	var out map[string]any
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%s: decode %s %s response: %w", c.cfg.ServiceName, method, path, err)
	}
	return out, nil
}

// DoInto executes one resilient call and decodes the 2xx body into out.
// A nil out or empty body skips decoding.
func (c *Client) DoInto(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.execute(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}

	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode %s %s response: %w", c.cfg.ServiceName, method, path, err)
	}
	return nil
}

// execute runs the call protocol: breaker gate, rate limit, then a bounded
// attempt loop. Exactly one breaker outcome is recorded per completed call
// and none for a rejected or cancelled one.
func (c *Client) execute(ctx context.Context, method, path string, body any) ([]byte, error) {
	service := c.cfg.ServiceName

	generation, allowErr := c.breaker.Allow()
	if allowErr != nil {
		retryAfter := c.breaker.RetryAfter()
		if c.metrics != nil {
			c.metrics.RecordPeerError(service, method, "circuit_open")
		}
		c.logger.Debug("circuit rejected call",
			zap.String("service", service),
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("retry_after", retryAfter),
		)
		return nil, &CircuitOpenError{Service: service, RetryAfter: retryAfter}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.breaker.Abandon(generation)
			return nil, fmt.Errorf("%s: %s %s: %w", service, method, path, err)
		}
	}

	callID := id.NewCallID().String()
	timer := c.newTimer(method)
	attempts := c.cfg.MaxRetries + 1

	c.logger.Debug("calling peer",
		zap.String("service", service),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("call_id", callID),
	)

	var lastErr *TransportError

	for attempt := 0; attempt < attempts; attempt++ {
		resp, err := c.attempt(ctx, method, path, body, callID)

		if err == nil {
			status := resp.StatusCode()
			if status < http.StatusBadRequest {
				c.breaker.RecordSuccess(generation)
				stopTimer(timer, statusClass(status))
				return resp.Body(), nil
			}

			// A well-formed error response is final: the exchange completed,
			// so the circuit stays healthy while the caller sees the status.
			c.breaker.RecordSuccess(generation)
			stopTimer(timer, statusClass(status))
			if c.metrics != nil {
				c.metrics.RecordPeerError(service, method, "http_status")
			}
			return nil, &HTTPStatusError{
				Service:    service,
				Method:     method,
				Path:       path,
				StatusCode: status,
				Body:       append([]byte(nil), resp.Body()...),
			}
		}

		if ctx.Err() != nil {
			// The caller gave up. The breaker keeps neither a success nor
			// a failure from this call.
			c.breaker.Abandon(generation)
			stopTimer(timer, "cancelled")
			if c.metrics != nil {
				c.metrics.RecordPeerError(service, method, "cancelled")
			}
			return nil, fmt.Errorf("%s: %s %s: %w", service, method, path, ctx.Err())
		}

		lastErr = &TransportError{Service: service, Op: method + " " + path, Err: err}

		if attempt < attempts-1 {
			delay := c.backoff.Delay(attempt)
			c.logger.Warn("peer call failed, retrying",
				zap.String("service", service),
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", attempts),
				zap.Duration("backoff", delay),
				zap.Error(err),
			)
			if c.metrics != nil {
				c.metrics.RecordPeerRetry(service)
			}
			if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
				c.breaker.Abandon(generation)
				stopTimer(timer, "cancelled")
				if c.metrics != nil {
					c.metrics.RecordPeerError(service, method, "cancelled")
				}
				return nil, fmt.Errorf("%s: %s %s: %w", service, method, path, sleepErr)
			}
		}
	}

	c.breaker.RecordFailure(generation)
	stopTimer(timer, "unavailable")
	if c.metrics != nil {
		c.metrics.RecordPeerError(service, method, "unavailable")
	}
	c.logger.Error("peer unavailable, attempts exhausted",
		zap.String("service", service),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("attempts", attempts),
		zap.Error(lastErr),
	)
	return nil, &ServiceUnavailableError{Service: service, Attempts: attempts, Err: lastErr}
}

// attempt issues a single HTTP request. Transport failures come back as a
// non-nil error; any received response, whatever its status, does not.
func (c *Client) attempt(ctx context.Context, method, path string, body any, callID string) (*resty.Response, error) {
	req := c.resty.R().
		SetContext(ctx).
		SetHeader("X-Correlation-ID", callID)

	if requestID, ok := RequestIDFrom(ctx); ok {
		req.SetHeader("X-Request-ID", requestID)
	}
	for key, value := range tracing.OutboundHeaders(ctx) {
		req.SetHeader(key, value)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	return req.Execute(method, path)
}

func (c *Client) newTimer(method string) *monitoring.Timer {
	if c.metrics == nil {
		return nil
	}
	return monitoring.NewTimer(c.metrics, c.cfg.ServiceName, method)
}

func stopTimer(timer *monitoring.Timer, code string) {
	if timer != nil {
		timer.Stop(code)
	}
}

func statusClass(status int) string {
	switch {
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
