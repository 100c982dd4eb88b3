package sync

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voxnote/ideas-api/api/types"
)

// PostRun performs one sync pass and reports how many ideas were
// pushed. Running without a remote session is a successful no-op.
func PostRun(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		synced, err := deps.Reconciler.Run(c.Request.Context())
		if err != nil {
			log.Printf("[ERROR] Sync run failed: %v", err)
			types.SendInternalError(c, "Sync run failed")
			return
		}

		c.JSON(http.StatusOK, types.SyncResponse{Synced: synced})
	}
}
