package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/RonoHenry/Design-Synapse-sub002/internal/client"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/config"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/logging"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/monitoring"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/resilience"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/shared/types"
)

// Definition declares one peer service for the registry. Zero-valued
// fields inherit the gateway-wide client defaults. Durations are strings
// so the same shape works across JSON, YAML, and TOML services files.
type Definition struct {
	Name              string  `json:"name" yaml:"name" toml:"name"`
	BaseURL           string  `json:"base_url" yaml:"base_url" toml:"base_url"`
	Timeout           string  `json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout,omitempty"`
	MaxRetries        *int    `json:"max_retries,omitempty" yaml:"max_retries,omitempty" toml:"max_retries,omitempty"`
	BackoffBase       string  `json:"backoff_base,omitempty" yaml:"backoff_base,omitempty" toml:"backoff_base,omitempty"`
	BackoffMultiplier float64 `json:"backoff_multiplier,omitempty" yaml:"backoff_multiplier,omitempty" toml:"backoff_multiplier,omitempty"`
	BackoffMax        string  `json:"backoff_max,omitempty" yaml:"backoff_max,omitempty" toml:"backoff_max,omitempty"`
	BreakerThreshold  int     `json:"breaker_threshold,omitempty" yaml:"breaker_threshold,omitempty" toml:"breaker_threshold,omitempty"`
	BreakerReset      string  `json:"breaker_reset,omitempty" yaml:"breaker_reset,omitempty" toml:"breaker_reset,omitempty"`
	RateLimit         float64 `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty" toml:"rate_limit,omitempty"`
	RateBurst         int     `json:"rate_burst,omitempty" yaml:"rate_burst,omitempty" toml:"rate_burst,omitempty"`
}

// clientConfig resolves the definition against gateway defaults.
func (d Definition) clientConfig(defaults config.ClientConfig) (client.Config, error) {
	cfg := client.Config{
		ServiceName:       d.Name,
		BaseURL:           d.BaseURL,
		Timeout:           defaults.Timeout,
		MaxRetries:        defaults.MaxRetries,
		BackoffBase:       defaults.BackoffBase,
		BackoffMultiplier: defaults.BackoffMultiplier,
		BackoffMax:        defaults.BackoffMax,
		BreakerThreshold:  defaults.BreakerThreshold,
		BreakerReset:      defaults.BreakerReset,
		RateLimit:         defaults.RateLimit,
		RateBurst:         defaults.RateBurst,
	}

	var err error
	if cfg.Timeout, err = overrideDuration(cfg.Timeout, d.Timeout); err != nil {
		return client.Config{}, fmt.Errorf("service %s: timeout: %w", d.Name, err)
	}
	if d.MaxRetries != nil {
		cfg.MaxRetries = *d.MaxRetries
	}
	if cfg.BackoffBase, err = overrideDuration(cfg.BackoffBase, d.BackoffBase); err != nil {
		return client.Config{}, fmt.Errorf("service %s: backoff_base: %w", d.Name, err)
	}
	if d.BackoffMultiplier > 0 {
		cfg.BackoffMultiplier = d.BackoffMultiplier
	}
	if cfg.BackoffMax, err = overrideDuration(cfg.BackoffMax, d.BackoffMax); err != nil {
		return client.Config{}, fmt.Errorf("service %s: backoff_max: %w", d.Name, err)
	}
	if d.BreakerThreshold > 0 {
		cfg.BreakerThreshold = d.BreakerThreshold
	}
	if cfg.BreakerReset, err = overrideDuration(cfg.BreakerReset, d.BreakerReset); err != nil {
		return client.Config{}, fmt.Errorf("service %s: breaker_reset: %w", d.Name, err)
	}
	if d.RateLimit > 0 {
		cfg.RateLimit = d.RateLimit
	}
	if d.RateBurst > 0 {
		cfg.RateBurst = d.RateBurst
	}

	return cfg, nil
}

func overrideDuration(current time.Duration, raw string) (time.Duration, error) {
	if raw == "" {
		return current, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// TransitionHook receives circuit breaker state changes. Hooks run under
// the breaker lock and must not block.
type TransitionHook func(event types.BreakerEvent)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger passed to every created client.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithMetrics sets the metrics recorder passed to every created client.
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(r *Registry) { r.metrics = metrics }
}

// WithTransitionHook registers a breaker transition observer.
func WithTransitionHook(hook TransitionHook) Option {
	return func(r *Registry) { r.hooks = append(r.hooks, hook) }
}

// Registry holds one resilient client per peer service, created lazily
// from registered definitions. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	defaults config.ClientConfig
	defs     map[string]Definition
	clients  map[string]*client.Client
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	hooks    []TransitionHook
}

// New creates a registry with gateway-wide client defaults.
func New(defaults config.ClientConfig, opts ...Option) *Registry {
	r := &Registry{
		defaults: defaults,
		defs:     make(map[string]Definition),
		clients:  make(map[string]*client.Client),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	return r
}

// Register adds or replaces a service definition. An already created
// client keeps its original settings.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("registry: definition requires a name")
	}
	if def.BaseURL == "" {
		return fmt.Errorf("registry: definition %s requires a base URL", def.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[def.Name] = def
	return nil
}

// RegisterAll registers every definition, stopping at the first error.
func (r *Registry) RegisterAll(defs []Definition) error {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the client for name if it was already created.
func (r *Registry) Get(name string) (*client.Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[name]
	return c, ok
}

// GetOrCreate returns the client for name, building it on first use from
// the registered definition.
func (r *Registry) GetOrCreate(name string) (*client.Client, error) {
	r.mu.RLock()
	if c, ok := r.clients[name]; ok {
		r.mu.RUnlock()
		return c, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[name]; ok {
		return c, nil
	}

	def, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown service %q", name)
	}

	c, err := r.build(def)
	if err != nil {
		return nil, err
	}
	r.clients[name] = c

	r.logger.Info("peer client created",
		zap.String("service", def.Name),
		zap.String("base_url", def.BaseURL),
	)
	return c, nil
}

// build assembles one client with a breaker wired into the registry's
// transition hooks.
func (r *Registry) build(def Definition) (*client.Client, error) {
	cfg, err := def.clientConfig(r.defaults)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	breaker := resilience.New(cfg.ServiceName, resilience.Settings{
		Threshold:     uint32(cfg.BreakerThreshold),
		ResetTimeout:  cfg.BreakerReset,
		OnStateChange: r.onTransition,
	})

	if r.metrics != nil {
		r.metrics.SetBreakerState(cfg.ServiceName, int(resilience.StateClosed))
	}

	return client.New(cfg,
		client.WithLogger(r.logger.WithService(cfg.ServiceName)),
		client.WithMetrics(r.metrics),
		client.WithBreaker(breaker),
	)
}

// onTransition fans a breaker state change out to the log, the metrics,
// and every registered hook. Runs under the breaker lock.
func (r *Registry) onTransition(name string, from, to resilience.State) {
	r.logger.Info("circuit state changed",
		zap.String("service", name),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)

	if r.metrics != nil {
		r.metrics.SetBreakerState(name, int(to))
		r.metrics.RecordBreakerTransition(name, to.String())
	}

	event := types.BreakerEvent{
		Service:   name,
		From:      from.String(),
		To:        to.String(),
		Timestamp: time.Now().UTC(),
	}
	for _, hook := range r.hooks {
		hook(event)
	}
}

// Names returns all registered service names sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot reports every created client's breaker state, sorted by
// service name.
func (r *Registry) Snapshot() []types.PeerStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statuses := make([]types.PeerStatus, 0, len(r.clients))
	for name, c := range r.clients {
		status := c.Breaker().Status()
		statuses = append(statuses, types.PeerStatus{
			Service:             name,
			BaseURL:             c.BaseURL(),
			Breaker:             status.State.String(),
			ConsecutiveFailures: status.ConsecutiveFailures,
			RetryAfterSeconds:   status.RetryAfter.Seconds(),
		})
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Service < statuses[j].Service
	})
	return statuses
}
