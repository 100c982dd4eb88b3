package ideas

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voxnote/ideas-api/api/types"
)

// PostRetry re-runs the processing pipeline for an idea stuck in the
// error status. Retrying an idea in any other status is a conflict.
func PostRetry(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		if _, err := deps.IdeaService.GetIdea(c.Request.Context(), id); err != nil {
			if isNotFound(err) {
				types.SendNotFound(c, "Idea not found")
				return
			}
			log.Printf("[ERROR] Failed to fetch idea %s: %v", id, err)
			types.SendInternalError(c, "Failed to fetch idea")
			return
		}

		accepted, err := deps.Pipeline.Retry(c.Request.Context(), id)
		if err != nil {
			log.Printf("[ERROR] Failed to retry idea %s: %v", id, err)
			types.SendInternalError(c, "Failed to retry idea")
			return
		}
		if !accepted {
			c.JSON(http.StatusConflict, types.ErrorResponse{
				Error: "Idea is not in the error status",
			})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{"status": "retrying"})
	}
}
