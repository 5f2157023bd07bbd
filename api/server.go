package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/killallgit/paperreel-api/api/types"
	"github.com/killallgit/paperreel-api/internal/logging"
	"github.com/killallgit/paperreel-api/internal/services/cleanup"
	"github.com/killallgit/paperreel-api/pkg/config"
)

// Server represents the HTTP server
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger

	limiters *ClientLimiters
	sweepers []*cleanup.Service

	// Dependencies for handlers
	dependencies *types.Dependencies
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, deps *types.Dependencies) *Server {
	if deps == nil {
		deps = &types.Dependencies{}
	}
	log := deps.Log().Named("http")

	engine := gin.New()
	engine.Use(logging.Recovery(log))

	limiters := NewClientLimiters(10 * time.Minute)
	server := &Server{
		engine:       engine,
		cfg:          cfg,
		log:          log,
		limiters:     limiters,
		sweepers:     []*cleanup.Service{cleanup.NewService("rate-limiters", 5*time.Minute, limiters.Sweep, log)},
		dependencies: deps,
		httpServer: &http.Server{
			Addr:           net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
			Handler:        engine,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			IdleTimeout:    30 * time.Second,
			MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		},
	}

	// Caches that expire entries lazily are swept on the server's schedule.
	if c, ok := deps.Cache.(sweepable); ok && cfg.Cache.CleanupInterval > 0 {
		server.sweepers = append(server.sweepers,
			cleanup.NewService("cache", cfg.Cache.CleanupInterval, c.Sweep, log))
	}

	return server
}

type sweepable interface {
	Sweep(now time.Time) int
}

// Engine returns the Gin engine for testing
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Initialize sets up middleware and routes
func (s *Server) Initialize() error {
	s.setupMiddleware()

	if err := s.setupRoutes(); err != nil {
		return err
	}

	return nil
}

// setupMiddleware configures global middleware
func (s *Server) setupMiddleware() {
	s.engine.Use(logging.Middleware(s.log))
	s.engine.Use(CORS(s.cfg.Security))
	s.engine.Use(RequestSizeLimitWithSize(s.cfg.Server.MaxBodyBytes))
}

// setupRoutes delegates to the main route registration
func (s *Server) setupRoutes() error {
	return RegisterRoutes(s.engine, s.dependencies, s.rateLimits())
}

// rateLimits builds the per-endpoint limiters from rate_limiting.endpoints
// (requests per minute).
func (s *Server) rateLimits() RateLimits {
	if !s.cfg.RateLimiting.Enabled {
		return RateLimits{}
	}
	endpoints := s.cfg.RateLimiting.Endpoints
	perMinute := func(name string) int {
		if v, ok := endpoints[name]; ok {
			return v
		}
		return endpoints["default"]
	}

	save := perMinute("save")
	def := perMinute("default")
	return RateLimits{
		Save:    PerClientRateLimit(s.limiters, "save", save, max(1, save/10)),
		Default: PerClientRateLimit(s.limiters, "default", def, max(1, def/10)),
	}
}

// Start starts the HTTP server. It returns nil once Shutdown has been
// called.
func (s *Server) Start(ctx context.Context) error {
	for _, sw := range s.sweepers {
		sw.Start(ctx)
	}
	s.log.Info("http server listening", zap.String("addr", s.httpServer.Addr))

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	for _, sw := range s.sweepers {
		sw.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
