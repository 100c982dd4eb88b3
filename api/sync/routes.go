package sync

import (
	"github.com/gin-gonic/gin"

	"github.com/voxnote/ideas-api/api/types"
)

// RegisterRoutes registers sync routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// POST /api/v1/sync - Run one sync pass now
	router.POST("", PostRun(deps))
}
