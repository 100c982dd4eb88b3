package ideas

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/voxnote/ideas-api/api/types"
)

// PostCreate accepts a finished recording as a multipart upload,
// persists it to the recordings directory, creates the idea, and
// kicks off the processing pipeline
func PostCreate(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("audio")
		if err != nil {
			types.SendBadRequest(c, "Missing audio file")
			return
		}

		durationMs, err := strconv.ParseInt(c.PostForm("duration_ms"), 10, 64)
		if err != nil || durationMs < 0 {
			types.SendBadRequest(c, "Invalid duration_ms")
			return
		}

		if err := os.MkdirAll(deps.RecordingsDir, 0o755); err != nil {
			log.Printf("[ERROR] Failed to create recordings directory: %v", err)
			types.SendInternalError(c, "Failed to store recording")
			return
		}

		ext := filepath.Ext(file.Filename)
		if ext == "" {
			ext = ".m4a"
		}
		audioPath := filepath.Join(deps.RecordingsDir, uuid.New().String()+ext)
		if err := c.SaveUploadedFile(file, audioPath); err != nil {
			log.Printf("[ERROR] Failed to save uploaded audio: %v", err)
			types.SendInternalError(c, "Failed to store recording")
			return
		}

		idea, err := deps.IdeaService.CreateIdea(c.Request.Context(), audioPath, durationMs)
		if err != nil {
			log.Printf("[ERROR] Failed to create idea: %v", err)
			os.Remove(audioPath)
			types.SendInternalError(c, "Failed to create idea")
			return
		}

		// Processing continues after this response returns
		deps.Pipeline.Trigger(idea.ID)

		log.Printf("[DEBUG] Idea %s created from upload (%dms)", idea.ID, durationMs)
		c.JSON(http.StatusCreated, types.ToIdeaResponse(idea))
	}
}
