/*
Package registry manages the set of resilient peer clients.

# Overview

Peers are declared as Definitions, seeded from environment configuration
and optionally merged with a services file (JSON, YAML, or TOML chosen
by extension, file entries winning). Clients are created lazily on first
use and shared afterwards, each wired with a circuit breaker whose state
changes flow to the log, the metrics, and any registered transition
hooks.

# Usage

	reg := registry.New(cfg.Client,
		registry.WithLogger(logger),
		registry.WithMetrics(metrics),
		registry.WithTransitionHook(broadcaster.PublishBreaker),
	)
	if err := registry.Bootstrap(reg, cfg.Peers); err != nil {
		return err
	}

	userClient, err := reg.GetOrCreate("user")
*/
package registry
