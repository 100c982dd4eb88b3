package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/voxnote/ideas-api/api/health"
	ideasRoutes "github.com/voxnote/ideas-api/api/ideas"
	syncRoutes "github.com/voxnote/ideas-api/api/sync"
	"github.com/voxnote/ideas-api/api/types"
	ideasService "github.com/voxnote/ideas-api/internal/services/ideas"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil {
		deps = &types.Dependencies{}
	}

	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	// API v1 routes
	v1 := engine.Group("/api/v1")

	// Initialize the idea service if not already set
	if deps.IdeaService == nil {
		if deps.DB == nil || deps.DB.DB == nil {
			return fmt.Errorf("no database configured for idea routes")
		}
		deps.IdeaService = ideasService.NewService(ideasService.NewRepository(deps.DB.DB))
	}

	// Register idea routes with general rate limiting (10 req/s, burst of 20)
	ideaGroup := v1.Group("/ideas")
	ideaGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	ideasRoutes.RegisterRoutes(ideaGroup, deps)

	// Register sync routes with tight rate limiting (1 req/s, burst of 2)
	// since each run uploads audio and hits the remote database
	if deps.Reconciler != nil {
		syncGroup := v1.Group("/sync")
		syncGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 1, 2))
		syncRoutes.RegisterRoutes(syncGroup, deps)
	}

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
