package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/RonoHenry/Design-Synapse-sub002/internal/client"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/shared/types"
)

// Knowledge calls the knowledge service.
type Knowledge struct {
	c *client.Client
}

// NewKnowledge wraps a resilient client for the knowledge service.
func NewKnowledge(c *client.Client) *Knowledge {
	return &Knowledge{c: c}
}

// Client returns the underlying resilient client.
func (k *Knowledge) Client() *client.Client {
	return k.c
}

// Search runs a document search. A non-positive limit leaves the result
// size to the peer.
func (k *Knowledge) Search(ctx context.Context, query string, limit int) ([]types.Document, error) {
	params := url.Values{}
	params.Set("query", query)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var out []types.Document
	path := "/documents/search?" + params.Encode()
	if err := k.c.DoInto(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Document fetches one document by ID.
func (k *Knowledge) Document(ctx context.Context, id string) (*types.Document, error) {
	var out types.Document
	path := fmt.Sprintf("/documents/%s", url.PathEscape(id))
	if err := k.c.DoInto(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Summarize asks the peer to condense one document.
func (k *Knowledge) Summarize(ctx context.Context, id string) (*types.Summary, error) {
	var out types.Summary
	path := fmt.Sprintf("/documents/%s/summarize", url.PathEscape(id))
	if err := k.c.DoInto(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health probes the knowledge service health endpoint.
func (k *Knowledge) Health(ctx context.Context) error {
	return k.c.DoInto(ctx, http.MethodGet, "/health", nil, nil)
}
