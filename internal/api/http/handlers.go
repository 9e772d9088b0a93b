package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/logging"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/monitoring"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/registry"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/services"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/shared/types"
)

// defaultSearchLimit bounds design context document lookups.
const defaultSearchLimit = 5

// Handlers contains all gateway HTTP handlers.
type Handlers struct {
	suite    *services.Suite
	registry *registry.Registry
	metrics  *monitoring.Metrics
	logger   *logging.Logger
	started  time.Time
}

// NewHandlers creates the gateway handler set.
func NewHandlers(suite *services.Suite, reg *registry.Registry, metrics *monitoring.Metrics, logger *logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		suite:    suite,
		registry: reg,
		metrics:  metrics,
		logger:   logger,
		started:  time.Now(),
	}
}

// Root identifies the service.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "synapse-gateway",
		"version": "1.0.0",
	})
}

// Health reports gateway liveness.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"peers":          h.registry.Names(),
	})
}

// PeersHealth fans a health probe out to every peer. The gateway answers
// 503 when any dependency is down so orchestrators can see degradation.
func (h *Handlers) PeersHealth(c *gin.Context) {
	report := h.suite.Report(c.Request.Context())

	status := http.StatusOK
	if report.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

// Breakers exposes every peer's circuit state.
func (h *Handlers) Breakers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"breakers": h.registry.Snapshot(),
	})
}

// MetricsJSON returns the aggregated metrics snapshot.
func (h *Handlers) MetricsJSON(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.GetSnapshot())
}

// UserProjects lists the projects a user belongs to.
func (h *Handlers) UserProjects(c *gin.Context) {
	userID := c.Param("id")

	projects, err := h.suite.User.Projects(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":  userID,
		"projects": projects,
	})
}

// ProjectMembership answers whether a user belongs to a project.
func (h *Handlers) ProjectMembership(c *gin.Context) {
	projectID := c.Param("id")
	userID := c.Param("userID")

	membership, err := h.suite.Project.Membership(c.Request.Context(), projectID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, membership)
}

// DesignContext aggregates a design with supporting knowledge documents.
// The design fetch is required; a failed document search degrades the
// response instead of failing it.
func (h *Handlers) DesignContext(c *gin.Context) {
	designID := c.Param("id")

	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	ctx := c.Request.Context()

	design, err := h.suite.Design.Get(ctx, designID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	query := c.Query("query")
	if query == "" {
		query = design.Name
	}

	result := types.DesignContext{
		Design:    design,
		Documents: []types.Document{},
	}

	docs, err := h.suite.Knowledge.Search(ctx, query, limit)
	if err != nil {
		h.logger.Warn("design context degraded, document search failed",
			zap.String("design_id", designID),
			zap.Error(err),
		)
		c.JSON(http.StatusOK, gin.H{
			"design":          result.Design,
			"documents":       result.Documents,
			"knowledge_error": "document search unavailable",
		})
		return
	}
	result.Documents = docs

	c.JSON(http.StatusOK, result)
}

// ValidateDesign runs the design service's validation checks.
func (h *Handlers) ValidateDesign(c *gin.Context) {
	designID := c.Param("id")

	validation, err := h.suite.Design.Validate(c.Request.Context(), designID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, validation)
}
