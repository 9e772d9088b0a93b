package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/RonoHenry/Design-Synapse-sub002/internal/client"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/shared/types"
)

// Design calls the design service.
type Design struct {
	c *client.Client
}

// NewDesign wraps a resilient client for the design service.
func NewDesign(c *client.Client) *Design {
	return &Design{c: c}
}

// Client returns the underlying resilient client.
func (d *Design) Client() *client.Client {
	return d.c
}

// Get fetches one design by ID.
func (d *Design) Get(ctx context.Context, id string) (*types.Design, error) {
	var out types.Design
	path := fmt.Sprintf("/designs/%s", url.PathEscape(id))
	if err := d.c.DoInto(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Validate runs the peer's validation checks against a design.
func (d *Design) Validate(ctx context.Context, id string) (*types.Validation, error) {
	var out types.Validation
	path := fmt.Sprintf("/designs/%s/validate", url.PathEscape(id))
	if err := d.c.DoInto(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health probes the design service health endpoint.
func (d *Design) Health(ctx context.Context) error {
	return d.c.DoInto(ctx, http.MethodGet, "/health", nil, nil)
}
