package ideas

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voxnote/ideas-api/api/types"
	ideasService "github.com/voxnote/ideas-api/internal/services/ideas"
)

// GetAll returns all ideas, newest first, optionally filtered by the
// q query parameter
func GetAll(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")

		ideas, err := deps.IdeaService.ListIdeas(c.Request.Context(), query)
		if err != nil {
			log.Printf("[ERROR] Failed to list ideas: %v", err)
			types.SendInternalError(c, "Failed to list ideas")
			return
		}

		c.JSON(http.StatusOK, types.ToIdeasResponse(ideas))
	}
}

// isNotFound checks if the error indicates a missing idea
func isNotFound(err error) bool {
	return errors.Is(err, ideasService.ErrIdeaNotFound)
}
