package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voxnote/ideas-api/api/types"
	"github.com/voxnote/ideas-api/internal/database"
)

// Server represents the HTTP server
type Server struct {
	engine             *gin.Engine
	httpServer         *http.Server
	db                 *database.DB
	maxUploadSize      int64
	rateLimiters       *sync.Map
	cleanupInitialized sync.Once
	cleanupStop        chan struct{}

	// Dependencies for handlers
	dependencies *types.Dependencies
}

// NewServer creates a new HTTP server
func NewServer(address string) *Server {
	// Create Gin engine with recovery middleware only
	engine := gin.New()
	engine.Use(gin.Recovery())

	server := &Server{
		engine:        engine,
		maxUploadSize: defaultMaxUploadSize,
		rateLimiters:  &sync.Map{},
		cleanupStop:   make(chan struct{}),
		httpServer: &http.Server{
			Addr:           address,
			Handler:        engine,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    30 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
	}

	return server
}

// SetDatabase sets the database connection
func (s *Server) SetDatabase(db *database.DB) {
	s.db = db
	if s.dependencies == nil {
		s.dependencies = &types.Dependencies{}
	}
	s.dependencies.DB = db
}

// SetDependencies sets all handler dependencies
func (s *Server) SetDependencies(deps *types.Dependencies) {
	s.dependencies = deps
}

// SetMaxUploadSize overrides the request body cap for audio uploads
func (s *Server) SetMaxUploadSize(maxBytes int64) {
	if maxBytes > 0 {
		s.maxUploadSize = maxBytes
	}
}

// Engine returns the Gin engine for testing
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Initialize sets up middleware and routes
func (s *Server) Initialize() error {
	s.setupMiddleware()
	return s.setupRoutes()
}

// setupMiddleware configures global middleware
func (s *Server) setupMiddleware() {
	// Logger middleware
	s.engine.Use(gin.Logger())

	// Global CORS
	s.engine.Use(CORS())

	// Global request size limit, sized for audio uploads
	s.engine.Use(RequestSizeLimitWithSize(s.maxUploadSize))
}

// setupRoutes delegates to the main route registration
func (s *Server) setupRoutes() error {
	return RegisterRoutes(s.engine, s.dependencies, s.rateLimiters, s.cleanupStop, &s.cleanupInitialized)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Stop the rate limiter cleanup goroutine
	close(s.cleanupStop)

	return s.httpServer.Shutdown(ctx)
}
