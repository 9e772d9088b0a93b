package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RonoHenry/Design-Synapse-sub002/internal/client"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/config"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/shared/types"
)

func testDefaults() config.ClientConfig {
	return config.ClientConfig{
		Timeout:           time.Second,
		MaxRetries:        3,
		BackoffBase:       time.Second,
		BackoffMultiplier: 2.0,
		BreakerThreshold:  5,
		BreakerReset:      30 * time.Second,
	}
}

func TestDefinitionClientConfig(t *testing.T) {
	one := 1

	tests := []struct {
		name    string
		def     Definition
		want    func(t *testing.T, cfg client.Config)
		wantErr bool
	}{
		{
			name: "inherits defaults",
			def:  Definition{Name: "user", BaseURL: "http://user:8001"},
			want: func(t *testing.T, cfg client.Config) {
				assert.Equal(t, time.Second, cfg.Timeout)
				assert.Equal(t, 3, cfg.MaxRetries)
				assert.Equal(t, 2.0, cfg.BackoffMultiplier)
				assert.Equal(t, 5, cfg.BreakerThreshold)
			},
		},
		{
			name: "overrides fields",
			def: Definition{
				Name:              "project",
				BaseURL:           "http://project:8002",
				Timeout:           "250ms",
				MaxRetries:        &one,
				BackoffBase:       "100ms",
				BackoffMultiplier: 1.5,
				BreakerThreshold:  2,
				BreakerReset:      "5s",
			},
			want: func(t *testing.T, cfg client.Config) {
				assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
				assert.Equal(t, 1, cfg.MaxRetries)
				assert.Equal(t, 100*time.Millisecond, cfg.BackoffBase)
				assert.Equal(t, 1.5, cfg.BackoffMultiplier)
				assert.Equal(t, 2, cfg.BreakerThreshold)
				assert.Equal(t, 5*time.Second, cfg.BreakerReset)
			},
		},
		{
			name:    "bad duration",
			def:     Definition{Name: "user", BaseURL: "http://user:8001", Timeout: "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := tt.def.clientConfig(testDefaults())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.def.Name, cfg.ServiceName)
			assert.Equal(t, tt.def.BaseURL, cfg.BaseURL)
			tt.want(t, cfg)
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	r := New(testDefaults())

	assert.Error(t, r.Register(Definition{BaseURL: "http://user:8001"}))
	assert.Error(t, r.Register(Definition{Name: "user"}))
	assert.NoError(t, r.Register(Definition{Name: "user", BaseURL: "http://user:8001"}))
}

func TestGetOrCreateReturnsSharedClient(t *testing.T) {
	r := New(testDefaults())
	require.NoError(t, r.Register(Definition{Name: "user", BaseURL: "http://user:8001"}))

	first, err := r.GetOrCreate("user")
	require.NoError(t, err)

	second, err := r.GetOrCreate("user")
	require.NoError(t, err)
	assert.Same(t, first, second)

	got, ok := r.Get("user")
	assert.True(t, ok)
	assert.Same(t, first, got)
}

func TestGetOrCreateUnknownService(t *testing.T) {
	r := New(testDefaults())

	_, err := r.GetOrCreate("billing")
	assert.ErrorContains(t, err, "unknown service")

	_, ok := r.Get("billing")
	assert.False(t, ok)
}

func TestGetOrCreateConcurrent(t *testing.T) {
	r := New(testDefaults())
	require.NoError(t, r.Register(Definition{Name: "user", BaseURL: "http://user:8001"}))

	const workers = 16
	clients := make([]*client.Client, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := r.GetOrCreate("user")
			assert.NoError(t, err)
			clients[i] = c
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Same(t, clients[0], clients[i])
	}
}

func TestNamesSorted(t *testing.T) {
	r := New(testDefaults())
	require.NoError(t, r.RegisterAll([]Definition{
		{Name: "project", BaseURL: "http://project:8002"},
		{Name: "design", BaseURL: "http://design:8004"},
		{Name: "user", BaseURL: "http://user:8001"},
	}))

	assert.Equal(t, []string{"design", "project", "user"}, r.Names())
}

func TestSnapshotReportsCreatedClients(t *testing.T) {
	r := New(testDefaults())
	require.NoError(t, r.RegisterAll([]Definition{
		{Name: "user", BaseURL: "http://user:8001"},
		{Name: "project", BaseURL: "http://project:8002"},
	}))

	// Only created clients appear.
	_, err := r.GetOrCreate("user")
	require.NoError(t, err)

	snap := r.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "user", snap[0].Service)
	assert.Equal(t, "http://user:8001", snap[0].BaseURL)
	assert.Equal(t, "closed", snap[0].Breaker)
	assert.Zero(t, snap[0].ConsecutiveFailures)

	_, err = r.GetOrCreate("project")
	require.NoError(t, err)

	snap = r.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "project", snap[0].Service)
	assert.Equal(t, "user", snap[1].Service)
}

func TestTransitionHookObservesBreaker(t *testing.T) {
	// A server that is already closed refuses connections immediately.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	deadURL := srv.URL
	srv.Close()

	var mu sync.Mutex
	var events []types.BreakerEvent

	r := New(testDefaults(), WithTransitionHook(func(e types.BreakerEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	}))

	zero := 0
	require.NoError(t, r.Register(Definition{
		Name:             "user",
		BaseURL:          deadURL,
		MaxRetries:       &zero,
		BreakerThreshold: 1,
	}))

	c, err := r.GetOrCreate("user")
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/health")
	require.Error(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 1)
	assert.Equal(t, "user", events[0].Service)
	assert.Equal(t, "closed", events[0].From)
	assert.Equal(t, "open", events[0].To)
	assert.False(t, events[0].Timestamp.IsZero())
}
