// Package server provides HTTP server setup and initialization for the
// Synapse gateway.
//
// This package orchestrates all components:
//   - HTTP routing with Gin framework
//   - Middleware stack (tracing, request IDs, logging, CORS, rate limiting, recovery)
//   - Peer registry with resilient clients per backend service
//   - Breaker event broadcasting over WebSocket
//   - Prometheus metrics exposure
//
// Server Lifecycle:
//  1. Load configuration from environment/flags
//  2. Initialize logger (production or development)
//  3. Bootstrap the peer registry from env and services file
//  4. Build the service suite on top of the registry
//  5. Setup HTTP routes and middleware
//  6. Start HTTP server
//  7. Graceful shutdown on signal
//
// Features:
//   - Configuration-driven setup
//   - Graceful shutdown handling
//   - Health check and aggregation endpoints
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
