package ideas

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voxnote/ideas-api/api/types"
)

// RenameRequest is the body for a title update
type RenameRequest struct {
	Title string `json:"title" binding:"required"`
}

// PatchTitle sets a user-chosen title on an idea. A renamed idea is
// marked unsynced so the new title reaches the remote store on the
// next sync run.
func PatchTitle(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var req RenameRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		idea, err := deps.IdeaService.RenameIdea(c.Request.Context(), id, req.Title)
		if err != nil {
			if isNotFound(err) {
				types.SendNotFound(c, "Idea not found")
				return
			}
			log.Printf("[ERROR] Failed to rename idea %s: %v", id, err)
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.ToIdeaResponse(idea))
	}
}
