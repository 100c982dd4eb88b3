package types

import (
	"github.com/voxnote/ideas-api/internal/database"
	"github.com/voxnote/ideas-api/internal/services/ideas"
	"github.com/voxnote/ideas-api/internal/services/pipeline"
	"github.com/voxnote/ideas-api/internal/services/syncer"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB          *database.DB
	IdeaService ideas.Service
	Pipeline    *pipeline.Processor
	Reconciler  *syncer.Reconciler

	// RecordingsDir is where uploaded audio artifacts are stored
	RecordingsDir string
}
