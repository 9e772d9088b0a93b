package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all gateway configuration.
type Config struct {
	Server    ServerConfig
	Client    ClientConfig
	Peers     PeersConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// ClientConfig holds resilient client defaults applied to every peer.
type ClientConfig struct {
	Timeout           time.Duration `envconfig:"CLIENT_TIMEOUT" default:"5s"`
	MaxRetries        int           `envconfig:"CLIENT_MAX_RETRIES" default:"3"`
	BackoffBase       time.Duration `envconfig:"CLIENT_BACKOFF_BASE" default:"1s"`
	BackoffMultiplier float64       `envconfig:"CLIENT_BACKOFF_MULTIPLIER" default:"2.0"`
	BackoffMax        time.Duration `envconfig:"CLIENT_BACKOFF_MAX" default:"0s"`
	BreakerThreshold  int           `envconfig:"CLIENT_BREAKER_THRESHOLD" default:"5"`
	BreakerReset      time.Duration `envconfig:"CLIENT_BREAKER_RESET" default:"30s"`
	RateLimit         float64       `envconfig:"CLIENT_RATE_LIMIT" default:"0"`
	RateBurst         int           `envconfig:"CLIENT_RATE_BURST" default:"0"`
}

// PeersConfig holds peer service addresses.
type PeersConfig struct {
	UserURL      string `envconfig:"USER_SERVICE_URL" default:"http://localhost:8001"`
	ProjectURL   string `envconfig:"PROJECT_SERVICE_URL" default:"http://localhost:8002"`
	KnowledgeURL string `envconfig:"KNOWLEDGE_SERVICE_URL" default:"http://localhost:8003"`
	DesignURL    string `envconfig:"DESIGN_SERVICE_URL" default:"http://localhost:8004"`
	File         string `envconfig:"SERVICES_FILE" default:""`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds inbound rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Host: "0.0.0.0",
		},
		Client: ClientConfig{
			Timeout:           5 * time.Second,
			MaxRetries:        3,
			BackoffBase:       time.Second,
			BackoffMultiplier: 2.0,
			BreakerThreshold:  5,
			BreakerReset:      30 * time.Second,
		},
		Peers: PeersConfig{
			UserURL:      "http://localhost:8001",
			ProjectURL:   "http://localhost:8002",
			KnowledgeURL: "http://localhost:8003",
			DesignURL:    "http://localhost:8004",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Client.Timeout <= 0 {
		return fmt.Errorf("invalid config: CLIENT_TIMEOUT must be positive, got %s", c.Client.Timeout)
	}
	if c.Client.MaxRetries < 0 {
		return fmt.Errorf("invalid config: CLIENT_MAX_RETRIES must be >= 0, got %d", c.Client.MaxRetries)
	}
	if c.Client.MaxRetries > 0 && c.Client.BackoffBase <= 0 {
		return fmt.Errorf("invalid config: CLIENT_BACKOFF_BASE must be positive, got %s", c.Client.BackoffBase)
	}
	if c.Client.BackoffMultiplier < 1 {
		return fmt.Errorf("invalid config: CLIENT_BACKOFF_MULTIPLIER must be >= 1, got %g", c.Client.BackoffMultiplier)
	}
	if c.Client.BreakerThreshold <= 0 {
		return fmt.Errorf("invalid config: CLIENT_BREAKER_THRESHOLD must be positive, got %d", c.Client.BreakerThreshold)
	}
	if c.Client.BreakerReset <= 0 {
		return fmt.Errorf("invalid config: CLIENT_BREAKER_RESET must be positive, got %s", c.Client.BreakerReset)
	}
	return nil
}
