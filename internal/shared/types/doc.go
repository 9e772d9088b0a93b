// Package types provides shared data structures for the Design-Synapse platform.
//
// This package defines the types exchanged between the gateway, the peer
// service clients, and the observability surfaces, keeping payload shapes
// consistent across components.
//
// Peer Resources:
//   - User, ProjectRef: user service resources
//   - Project, Membership, Member: project service resources
//   - Document, Summary: knowledge service resources
//   - Design, Validation, DesignContext: design service resources
//
// Observability:
//   - PeerStatus: registered peer with its circuit state
//   - PeerHealth, HealthReport: dependency health aggregation
//   - BreakerEvent: circuit breaker state transition
package types
