/*
Package services provides typed clients for each peer service.

# Overview

Each type wraps a resilient client from the registry and exposes the
peer's resources as plain Go methods returning shared DTOs. The Suite
bundles the standard four peers and fans health checks out in parallel.

# Usage

	suite, err := services.NewSuite(reg)
	if err != nil {
		return err
	}

	membership, err := suite.Project.Membership(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if membership.IsMember {
		// ...
	}
*/
package services
