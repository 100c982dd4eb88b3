package ideas

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voxnote/ideas-api/api/types"
)

// GetByID returns a single idea
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		idea, err := deps.IdeaService.GetIdea(c.Request.Context(), id)
		if err != nil {
			if isNotFound(err) {
				types.SendNotFound(c, "Idea not found")
			} else {
				log.Printf("[ERROR] Failed to fetch idea %s: %v", id, err)
				types.SendInternalError(c, "Failed to fetch idea")
			}
			return
		}

		c.JSON(http.StatusOK, types.ToIdeaResponse(idea))
	}
}
