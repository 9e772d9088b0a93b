// Package config provides 12-factor configuration management for the gateway.
//
// Configuration is loaded from environment variables with sensible defaults.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Client: resilient client defaults (timeout, retries, backoff, breaker)
//   - Peers: peer service base URLs and optional services file
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Gateway running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - CLIENT_TIMEOUT, CLIENT_MAX_RETRIES, CLIENT_BACKOFF_BASE,
//     CLIENT_BACKOFF_MULTIPLIER, CLIENT_BREAKER_THRESHOLD, CLIENT_BREAKER_RESET
//   - USER_SERVICE_URL, PROJECT_SERVICE_URL, KNOWLEDGE_SERVICE_URL,
//     DESIGN_SERVICE_URL, SERVICES_FILE
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
