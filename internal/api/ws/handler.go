package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/logging"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/monitoring"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/registry"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/shared/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Origins are filtered by the CORS layer
	},
}

// message is the inbound client frame.
type message struct {
	Type string `json:"type"`
}

// Handler streams circuit breaker transitions over WebSocket.
type Handler struct {
	broadcaster *Broadcaster
	registry    *registry.Registry
	logger      *logging.Logger
	metrics     *monitoring.Metrics
}

// NewHandler creates a WebSocket handler.
func NewHandler(broadcaster *Broadcaster, reg *registry.Registry, logger *logging.Logger, metrics *monitoring.Metrics) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{
		broadcaster: broadcaster,
		registry:    reg,
		logger:      logger,
		metrics:     metrics,
	}
}

// HandleConnection upgrades the request and streams breaker transitions
// until the client disconnects.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	connID := uuid.New().String()
	h.logger.Debug("breaker stream client connected", zap.String("conn_id", connID))
	defer h.logger.Debug("breaker stream client disconnected", zap.String("conn_id", connID))

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	events, cancel := h.broadcaster.Subscribe()
	defer cancel()

	// Current state first so the client never starts blind.
	h.send(conn, map[string]interface{}{
		"type":  "hello",
		"peers": h.registry.Snapshot(),
	})

	// Reader detects close and ping; all writes stay on this goroutine.
	pings := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg message
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type == "ping" {
				select {
				case pings <- struct{}{}:
				default:
				}
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-pings:
			h.send(conn, map[string]interface{}{"type": "pong"})
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := h.sendEvent(conn, event); err != nil {
				return
			}
			if h.metrics != nil {
				h.metrics.RecordWSEvent()
			}
		}
	}
}

func (h *Handler) sendEvent(conn *websocket.Conn, event types.BreakerEvent) error {
	return h.send(conn, map[string]interface{}{
		"type":      "breaker_transition",
		"service":   event.Service,
		"from":      event.From,
		"to":        event.To,
		"timestamp": event.Timestamp.Format(time.RFC3339Nano),
	})
}

func (h *Handler) send(conn *websocket.Conn, data interface{}) error {
	return conn.WriteJSON(data)
}
