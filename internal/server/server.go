package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/RonoHenry/Design-Synapse-sub002/internal/api/http"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/api/middleware"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/api/ws"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/config"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/logging"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/monitoring"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/tracing"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/registry"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/services"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Option overrides server defaults.
type Option func(*Server)

// WithLogger injects a logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics injects a metrics collector. Tests pass one backed by a
// dedicated registry so repeated construction cannot double-register.
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(s *Server) { s.metrics = metrics }
}

// Server wraps the HTTP server and gateway dependencies.
type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	registry    *registry.Registry
	suite       *services.Suite
	broadcaster *ws.Broadcaster
	logger      *logging.Logger
	config      *config.Config
	metrics     *monitoring.Metrics
}

// NewServer creates a gateway server instance.
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{config: cfg}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		logCfg := logging.DefaultConfig()
		if cfg.Logging.Development {
			logCfg = logging.DevelopmentConfig()
		}
		if cfg.Logging.Level != "" {
			logCfg.Level = cfg.Logging.Level
		}
		logger, err := logging.New(logCfg)
		if err != nil {
			logger = logging.NewDefault()
		}
		s.logger = logger
	}
	logger := s.logger

	logger.Info("Initializing Synapse Gateway",
		zap.String("port", cfg.Server.Port),
		zap.Duration("client_timeout", cfg.Client.Timeout),
		zap.Int("max_retries", cfg.Client.MaxRetries),
		zap.Int("breaker_threshold", cfg.Client.BreakerThreshold),
	)

	if s.metrics == nil {
		s.metrics = monitoring.NewMetrics()
	}
	metrics := s.metrics

	tracer := tracing.New("synapse-gateway", logger.Logger)

	broadcaster := ws.NewBroadcaster(logger)
	s.broadcaster = broadcaster

	reg := registry.New(cfg.Client,
		registry.WithLogger(logger),
		registry.WithMetrics(metrics),
		registry.WithTransitionHook(broadcaster.Publish),
	)
	if err := registry.Bootstrap(reg, cfg.Peers); err != nil {
		return nil, err
	}
	s.registry = reg
	logger.Info("Peer registry bootstrapped", zap.Strings("services", reg.Names()))

	suite, err := services.NewSuite(reg)
	if err != nil {
		return nil, err
	}
	s.suite = suite

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging(logger))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	// Create handlers
	handlers := apihttp.NewHandlers(suite, reg, metrics, logger)
	wsHandler := ws.NewHandler(broadcaster, reg, logger, metrics)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/health/peers", handlers.PeersHealth)
	router.GET("/internal/breakers", handlers.Breakers)

	// Aggregation endpoints
	api := router.Group("/api")
	{
		api.GET("/users/:id/projects", handlers.UserProjects)
		api.GET("/projects/:id/members/:userID", handlers.ProjectMembership)
		api.GET("/designs/:id/context", handlers.DesignContext)
		api.POST("/designs/:id/validate", handlers.ValidateDesign)
	}

	// WebSocket
	router.GET("/stream/breakers", wsHandler.HandleConnection)

	// Metrics endpoints
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/metrics/json", handlers.MetricsJSON)

	s.router = router
	s.httpServer = &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: router,
	}

	logger.Info("Server initialized successfully")
	return s, nil
}

// Router exposes the gin engine for in-process testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Registry exposes the peer registry.
func (s *Server) Registry() *registry.Registry {
	return s.registry
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close drains in-flight requests and shuts the server down.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Forced shutdown", zap.Error(err))
		return err
	}

	s.logger.Sync()
	return nil
}
