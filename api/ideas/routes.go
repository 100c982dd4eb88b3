package ideas

import (
	"github.com/gin-gonic/gin"

	"github.com/voxnote/ideas-api/api/types"
)

// RegisterRoutes registers idea routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/v1/ideas - List ideas, optionally filtered by ?q=
	router.GET("", GetAll(deps))

	// POST /api/v1/ideas - Upload a recording and start processing
	router.POST("", PostCreate(deps))

	// GET /api/v1/ideas/:id - Get a single idea
	router.GET("/:id", GetByID(deps))

	// PATCH /api/v1/ideas/:id/title - Rename an idea
	router.PATCH("/:id/title", PatchTitle(deps))

	// POST /api/v1/ideas/:id/retry - Re-run the pipeline for a failed idea
	router.POST("/:id/retry", PostRetry(deps))

	// DELETE /api/v1/ideas/:id - Delete an idea and its audio
	router.DELETE("/:id", Delete(deps))
}
