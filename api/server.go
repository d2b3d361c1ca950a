package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/fortune-api/api/types"
	"github.com/killallgit/fortune-api/pkg/config"
)

// Server represents the HTTP server
type Server struct {
	engine       *gin.Engine
	httpServer   *http.Server
	cfg          *config.Config
	rateLimiters *RateLimiters
	logger       *slog.Logger

	// Dependencies for handlers
	dependencies *types.Dependencies
}

// NewServer creates a new HTTP server listening on cfg.Server.Addr()
func NewServer(cfg *config.Config, deps *types.Dependencies) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())

	logger := slog.Default()
	if deps != nil && deps.Logger != nil {
		logger = deps.Logger
	}

	return &Server{
		engine:       engine,
		cfg:          cfg,
		rateLimiters: NewRateLimiters(),
		logger:       logger,
		dependencies: deps,
		httpServer: &http.Server{
			Addr:           cfg.Server.Addr(),
			Handler:        engine,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			IdleTimeout:    cfg.Server.IdleTimeout,
			MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		},
	}
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
	if s.dependencies == nil || s.dependencies.Fortunes == nil {
		return errors.New("server: fortune repository is required")
	}
	if s.dependencies.Logger == nil {
		s.dependencies.Logger = s.logger
	}

	s.setupMiddleware()

	return RegisterRoutes(s.engine, s.cfg, s.dependencies, s.rateLimiters)
}

// setupMiddleware configures global middleware
func (s *Server) setupMiddleware() {
	if s.cfg.Security.EnableRequestID {
		s.engine.Use(RequestID())
	}

	s.engine.Use(RequestLogger(s.logger))

	if s.cfg.Security.EnableCORS {
		s.engine.Use(CORS())
	}

	s.engine.Use(RequestSizeLimit(s.cfg.Security.MaxRequestBytes))
}

// Start starts the HTTP server. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server listening", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server and releases middleware resources
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiters.Stop()

	err := s.httpServer.Shutdown(ctx)

	if s.dependencies != nil && s.dependencies.Cache != nil {
		s.dependencies.Cache.Close()
	}

	return err
}
