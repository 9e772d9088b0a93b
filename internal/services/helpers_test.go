package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/RonoHenry/Design-Synapse-sub002/internal/client"
)

// newPeerClient builds a single-attempt client against a test server so
// failures surface immediately.
func newPeerClient(t *testing.T, name, baseURL string) *client.Client {
	t.Helper()

	c, err := client.New(client.Config{
		ServiceName:       name,
		BaseURL:           baseURL,
		Timeout:           time.Second,
		MaxRetries:        0,
		BackoffBase:       time.Second,
		BackoffMultiplier: 2,
		BreakerThreshold:  5,
		BreakerReset:      30 * time.Second,
	})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
