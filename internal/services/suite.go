package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/RonoHenry/Design-Synapse-sub002/internal/client"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/registry"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/shared/types"
)

// healthCheckTimeout caps each peer probe during a fan-out so one hung
// dependency cannot stall the whole report.
const healthCheckTimeout = 5 * time.Second

// Suite bundles the typed clients for the standard peer set.
type Suite struct {
	User      *User
	Project   *Project
	Knowledge *Knowledge
	Design    *Design
}

// NewSuite builds the four standard peer clients from the registry.
func NewSuite(reg *registry.Registry) (*Suite, error) {
	userClient, err := reg.GetOrCreate("user")
	if err != nil {
		return nil, err
	}
	projectClient, err := reg.GetOrCreate("project")
	if err != nil {
		return nil, err
	}
	knowledgeClient, err := reg.GetOrCreate("knowledge")
	if err != nil {
		return nil, err
	}
	designClient, err := reg.GetOrCreate("design")
	if err != nil {
		return nil, err
	}

	return &Suite{
		User:      NewUser(userClient),
		Project:   NewProject(projectClient),
		Knowledge: NewKnowledge(knowledgeClient),
		Design:    NewDesign(designClient),
	}, nil
}

// Health probes every peer in parallel and reports each one's
// reachability and circuit state. A failed probe marks the peer
// unhealthy without aborting the others.
func (s *Suite) Health(ctx context.Context) []types.PeerHealth {
	checks := []struct {
		name   string
		client *client.Client
		probe  func(context.Context) error
	}{
		{"user", s.User.Client(), s.User.Health},
		{"project", s.Project.Client(), s.Project.Health},
		{"knowledge", s.Knowledge.Client(), s.Knowledge.Health},
		{"design", s.Design.Client(), s.Design.Health},
	}

	results := make([]types.PeerHealth, len(checks))

	var g errgroup.Group
	for i, check := range checks {
		i, check := i, check
		g.Go(func() error {
			probeCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
			defer cancel()

			start := time.Now()
			err := check.probe(probeCtx)
			latency := time.Since(start).Milliseconds()

			health := types.PeerHealth{
				Service:   check.name,
				Healthy:   err == nil,
				Breaker:   check.client.Breaker().State().String(),
				LatencyMS: latency,
			}
			if err != nil {
				health.Error = err.Error()
			}
			results[i] = health
			return nil
		})
	}
	g.Wait()

	return results
}

// Report wraps the peer probes in an overall up-or-degraded verdict.
func (s *Suite) Report(ctx context.Context) types.HealthReport {
	peers := s.Health(ctx)

	status := "healthy"
	for _, peer := range peers {
		if !peer.Healthy {
			status = "degraded"
			break
		}
	}

	return types.HealthReport{
		Status:    status,
		Peers:     peers,
		CheckedAt: time.Now().UTC(),
	}
}
