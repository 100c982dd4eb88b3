package ideas

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voxnote/ideas-api/api/types"
)

// Delete removes an idea and its audio artifact
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		if err := deps.IdeaService.DeleteIdea(c.Request.Context(), id); err != nil {
			if isNotFound(err) {
				types.SendNotFound(c, "Idea not found")
				return
			}
			log.Printf("[ERROR] Failed to delete idea %s: %v", id, err)
			types.SendInternalError(c, "Failed to delete idea")
			return
		}

		c.Status(http.StatusNoContent)
	}
}
