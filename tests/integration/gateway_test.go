//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/config"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/logging"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/monitoring"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/server"
)

// startGateway builds a fully wired gateway and exposes it on a real
// listener. Each call gets its own metrics registry so repeated server
// construction cannot double-register collectors.
func startGateway(t *testing.T, mutate func(*config.Config)) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.Client.Timeout = 2 * time.Second
	cfg.Client.MaxRetries = 0
	cfg.Client.BreakerReset = time.Minute
	if mutate != nil {
		mutate(cfg)
	}

	srv, err := server.NewServer(cfg,
		server.WithLogger(logging.NewNop()),
		server.WithMetrics(monitoring.NewMetricsWith(prometheus.NewRegistry())),
	)
	require.NoError(t, err)

	gw := httptest.NewServer(srv.Router())
	t.Cleanup(gw.Close)
	return gw
}

// deadPeerURL returns an address that refuses connections immediately.
func deadPeerURL(t *testing.T) string {
	t.Helper()
	peer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := peer.URL
	peer.Close()
	return url
}

// healthyStub answers the health probe and nothing else.
func healthyStub(t *testing.T) *httptest.Server {
	t.Helper()
	peer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			writePeerJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(peer.Close)
	return peer
}

func writePeerJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func getJSON(t *testing.T, url string) (int, map[string]interface{}) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp.StatusCode, body
}

func TestGatewayAggregationIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	userPeer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/42/projects":
			assert.Equal(t, "GET", r.Method)
			assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
			assert.NotEmpty(t, r.Header.Get("X-Correlation-ID"))
			writePeerJSON(w, http.StatusOK, []map[string]string{
				{"id": "p1", "name": "Tower Renovation", "role": "architect"},
			})
		case "/health":
			writePeerJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer userPeer.Close()

	projectPeer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects/p1/members/42":
			writePeerJSON(w, http.StatusOK, map[string]interface{}{
				"is_member": true,
				"role":      "architect",
			})
		case "/health":
			writePeerJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer projectPeer.Close()

	knowledgePeer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/documents/search":
			assert.Equal(t, "Facade", r.URL.Query().Get("query"))
			assert.Equal(t, "2", r.URL.Query().Get("limit"))
			writePeerJSON(w, http.StatusOK, []map[string]interface{}{
				{"id": "d1", "title": "Facade Study", "score": 0.92},
			})
		case "/health":
			writePeerJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer knowledgePeer.Close()

	designPeer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/designs/dz-7":
			writePeerJSON(w, http.StatusOK, map[string]interface{}{
				"id": "dz-7", "project_id": "p1", "name": "Facade",
				"status": "draft", "version": 3,
			})
		case "/designs/dz-7/validate":
			assert.Equal(t, "POST", r.Method)
			writePeerJSON(w, http.StatusOK, map[string]interface{}{
				"design_id": "dz-7", "valid": true,
			})
		case "/health":
			writePeerJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer designPeer.Close()

	gw := startGateway(t, func(cfg *config.Config) {
		cfg.Peers.UserURL = userPeer.URL
		cfg.Peers.ProjectURL = projectPeer.URL
		cfg.Peers.KnowledgeURL = knowledgePeer.URL
		cfg.Peers.DesignURL = designPeer.URL
	})

	t.Run("root identifies the gateway", func(t *testing.T) {
		status, body := getJSON(t, gw.URL+"/")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "synapse-gateway", body["service"])
	})

	t.Run("responses carry a request id", func(t *testing.T) {
		resp, err := http.Get(gw.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})

	t.Run("user projects flow through the gateway", func(t *testing.T) {
		status, body := getJSON(t, gw.URL+"/api/users/42/projects")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "42", body["user_id"])

		projects, ok := body["projects"].([]interface{})
		require.True(t, ok)
		require.Len(t, projects, 1)
		first := projects[0].(map[string]interface{})
		assert.Equal(t, "Tower Renovation", first["name"])
	})

	t.Run("membership check", func(t *testing.T) {
		status, body := getJSON(t, gw.URL+"/api/projects/p1/members/42")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["is_member"])
		assert.Equal(t, "p1", body["project_id"])
		assert.Equal(t, "42", body["user_id"])
	})

	t.Run("design context aggregates both peers", func(t *testing.T) {
		status, body := getJSON(t, gw.URL+"/api/designs/dz-7/context?limit=2")
		require.Equal(t, http.StatusOK, status)

		design, ok := body["design"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Facade", design["name"])

		docs, ok := body["documents"].([]interface{})
		require.True(t, ok)
		require.Len(t, docs, 1)
		assert.Equal(t, "Facade Study", docs[0].(map[string]interface{})["title"])
	})

	t.Run("design validation", func(t *testing.T) {
		resp, err := http.Post(gw.URL+"/api/designs/dz-7/validate", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, true, body["valid"])
	})

	t.Run("peer health report is healthy", func(t *testing.T) {
		status, body := getJSON(t, gw.URL+"/health/peers")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "healthy", body["status"])

		peers, ok := body["peers"].([]interface{})
		require.True(t, ok)
		assert.Len(t, peers, 4)
		for _, raw := range peers {
			peer := raw.(map[string]interface{})
			assert.Equal(t, true, peer["healthy"], "peer %v", peer["service"])
			assert.Equal(t, "closed", peer["breaker"])
		}
	})

	t.Run("breaker snapshot", func(t *testing.T) {
		status, body := getJSON(t, gw.URL+"/internal/breakers")
		require.Equal(t, http.StatusOK, status)

		breakers, ok := body["breakers"].([]interface{})
		require.True(t, ok)
		require.Len(t, breakers, 4)
		assert.Equal(t, "design", breakers[0].(map[string]interface{})["service"])
	})

	t.Run("prometheus metrics", func(t *testing.T) {
		resp, err := http.Get(gw.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "synapse_http_requests_total")
		assert.Contains(t, string(raw), "synapse_peer_calls_total")
	})

	t.Run("metrics snapshot json", func(t *testing.T) {
		status, body := getJSON(t, gw.URL+"/metrics/json")
		require.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, body)
	})
}

func TestGatewayDependencyOutageIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	user := healthyStub(t)
	knowledge := healthyStub(t)
	design := healthyStub(t)
	deadProject := deadPeerURL(t)

	gw := startGateway(t, func(cfg *config.Config) {
		cfg.Peers.UserURL = user.URL
		cfg.Peers.ProjectURL = deadProject
		cfg.Peers.KnowledgeURL = knowledge.URL
		cfg.Peers.DesignURL = design.URL
		cfg.Client.BreakerThreshold = 1
	})

	t.Run("first call reports the peer unreachable", func(t *testing.T) {
		status, body := getJSON(t, gw.URL+"/api/projects/p1/members/42")
		require.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "unreachable", body["reason"])
		assert.Equal(t, "project", body["dependency"])
	})

	t.Run("second call is rejected by the open circuit", func(t *testing.T) {
		resp, err := http.Get(gw.URL + "/api/projects/p1/members/42")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("Retry-After"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "circuit_open", body["reason"])
	})

	t.Run("breaker snapshot shows the open circuit", func(t *testing.T) {
		status, body := getJSON(t, gw.URL+"/internal/breakers")
		require.Equal(t, http.StatusOK, status)

		var projectState string
		for _, raw := range body["breakers"].([]interface{}) {
			breaker := raw.(map[string]interface{})
			if breaker["service"] == "project" {
				projectState = breaker["breaker"].(string)
			}
		}
		assert.Equal(t, "open", projectState)
	})

	t.Run("peer health report degrades", func(t *testing.T) {
		status, body := getJSON(t, gw.URL+"/health/peers")
		require.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "degraded", body["status"])
	})

	t.Run("healthy peers keep answering", func(t *testing.T) {
		status, body := getJSON(t, gw.URL+"/health")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "healthy", body["status"])
	})
}

func TestGatewayBreakerStreamIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	user := healthyStub(t)
	project := healthyStub(t)
	knowledge := healthyStub(t)
	deadDesign := deadPeerURL(t)

	gw := startGateway(t, func(cfg *config.Config) {
		cfg.Peers.UserURL = user.URL
		cfg.Peers.ProjectURL = project.URL
		cfg.Peers.KnowledgeURL = knowledge.URL
		cfg.Peers.DesignURL = deadDesign
		cfg.Client.BreakerThreshold = 1
	})

	wsURL := "ws" + strings.TrimPrefix(gw.URL, "http") + "/stream/breakers"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello map[string]interface{}
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "hello", hello["type"])
	assert.Len(t, hello["peers"], 4)

	// Exhaust the design client once so its breaker trips.
	status, _ := getJSON(t, gw.URL+"/api/designs/dz-1/context")
	require.Equal(t, http.StatusServiceUnavailable, status)

	var event map[string]interface{}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "breaker_transition", event["type"])
	assert.Equal(t, "design", event["service"])
	assert.Equal(t, "closed", event["from"])
	assert.Equal(t, "open", event["to"])
	assert.NotEmpty(t, event["timestamp"])

	t.Run("ping receives pong", func(t *testing.T) {
		require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
		var pong map[string]interface{}
		require.NoError(t, conn.ReadJSON(&pong))
		assert.Equal(t, "pong", pong["type"])
	})
}
