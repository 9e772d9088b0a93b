package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/RonoHenry/Design-Synapse-sub002/internal/client"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/shared/types"
)

// Project calls the project service.
type Project struct {
	c *client.Client
}

// NewProject wraps a resilient client for the project service.
func NewProject(c *client.Client) *Project {
	return &Project{c: c}
}

// Client returns the underlying resilient client.
func (p *Project) Client() *client.Client {
	return p.c
}

// Get fetches one project by ID.
func (p *Project) Get(ctx context.Context, id string) (*types.Project, error) {
	var out types.Project
	path := fmt.Sprintf("/projects/%s", url.PathEscape(id))
	if err := p.c.DoInto(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Membership checks whether a user belongs to a project.
func (p *Project) Membership(ctx context.Context, projectID, userID string) (*types.Membership, error) {
	var out types.Membership
	path := fmt.Sprintf("/projects/%s/members/%s", url.PathEscape(projectID), url.PathEscape(userID))
	if err := p.c.DoInto(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	// The peer answers with the membership verdict only.
	out.ProjectID = projectID
	out.UserID = userID
	return &out, nil
}

// Members lists a project's members.
func (p *Project) Members(ctx context.Context, projectID string) ([]types.Member, error) {
	var out []types.Member
	path := fmt.Sprintf("/projects/%s/members", url.PathEscape(projectID))
	if err := p.c.DoInto(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health probes the project service health endpoint.
func (p *Project) Health(ctx context.Context) error {
	return p.c.DoInto(ctx, http.MethodGet, "/health", nil, nil)
}
