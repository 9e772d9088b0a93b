package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/RonoHenry/Design-Synapse-sub002/internal/client"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/shared/types"
)

// User calls the user service.
type User struct {
	c *client.Client
}

// NewUser wraps a resilient client for the user service.
func NewUser(c *client.Client) *User {
	return &User{c: c}
}

// Client returns the underlying resilient client.
func (u *User) Client() *client.Client {
	return u.c
}

// Get fetches one user by ID.
func (u *User) Get(ctx context.Context, id string) (*types.User, error) {
	var out types.User
	path := fmt.Sprintf("/users/%s", url.PathEscape(id))
	if err := u.c.DoInto(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Projects lists the projects a user belongs to.
func (u *User) Projects(ctx context.Context, id string) ([]types.ProjectRef, error) {
	var out []types.ProjectRef
	path := fmt.Sprintf("/users/%s/projects", url.PathEscape(id))
	if err := u.c.DoInto(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health probes the user service health endpoint.
func (u *User) Health(ctx context.Context) error {
	return u.c.DoInto(ctx, http.MethodGet, "/health", nil, nil)
}
