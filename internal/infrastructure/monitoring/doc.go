/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the gateway,
tracking inbound HTTP requests, outbound peer calls with their retries,
circuit breaker state, and WebSocket subscribers. A bounded latency window
additionally feeds exact per-peer quantiles into the JSON snapshot endpoint.

# Features

- HTTP request metrics (latency, throughput, size)
- Peer call metrics (duration, retries, error types)
- Circuit breaker state gauge and transition counter
- WebSocket subscriber metrics
- System metrics (uptime, in-flight requests)
- Per-peer latency quantiles (p50/p95/p99) over a recent sample window

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record peer activity
	metrics.RecordPeerRetry("user")
	metrics.SetBreakerState("user", 2)

	// Time outbound calls
	timer := monitoring.NewTimer(metrics, "user", "GET")
	// ... perform call ...
	timer.Stop("2xx")

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
