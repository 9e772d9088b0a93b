/*
Package tracing provides lightweight distributed tracing for the gateway.

# Overview

This package tracks requests as they fan out from the gateway to the peer
services (user, project, knowledge, design). It follows OpenTelemetry
concepts but with a minimal implementation tailored to the system's needs:
spans are emitted as structured log lines rather than exported to a
collector.

# Features

- Trace context propagation via HTTP headers
- Span creation with parent-child relationships
- Automatic trace ID generation (ULID-based)
- Gin middleware for automatic instrumentation
- Structured logging integration
- Low overhead with buffered span collection

# Usage

	// Create tracer
	tracer := tracing.New("synapse-gateway", logger)

	// HTTP middleware
	router.Use(tracing.HTTPMiddleware(tracer))

	// Manual span creation
	span, ctx := tracer.StartSpan(ctx, "operation")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()

	span.SetTag("key", "value")

	// Propagate to a peer call
	for k, v := range tracing.OutboundHeaders(ctx) {
		req.Header.Set(k, v)
	}

# Trace Format

Traces use standard HTTP headers for propagation:
- X-Trace-ID: Unique identifier for the entire request flow
- X-Span-ID: Identifier for the current operation

# Performance

The tracing system is designed for minimal overhead:
- Buffered span collection (1000 spans)
- Async span processing
- No external dependencies
*/
package tracing
