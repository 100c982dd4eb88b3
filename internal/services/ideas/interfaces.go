package ideas

import (
	"context"

	"github.com/voxnote/ideas-api/internal/models"
)

// Repository defines the interface for idea data persistence
type Repository interface {
	// Create operations
	CreateIdea(ctx context.Context, idea *models.Idea) error

	// Read operations
	GetAllIdeas(ctx context.Context) ([]models.Idea, error)
	GetIdeaByID(ctx context.Context, id string) (*models.Idea, error)
	SearchIdeas(ctx context.Context, query string) ([]models.Idea, error)
	ListUnsynced(ctx context.Context) ([]models.Idea, error)

	// Update operations
	TransitionStatus(ctx context.Context, id string, from, to models.IdeaStatus) (bool, error)
	SetTranscript(ctx context.Context, id, transcript string) error
	SetSummary(ctx context.Context, id string, summary *models.IdeaSummary) error
	SetError(ctx context.Context, id, message string) error
	SetTitle(ctx context.Context, id, title string) error
	MarkSynced(ctx context.Context, id string, audioCloudURL string) error

	// Delete operations
	DeleteIdea(ctx context.Context, id string) error
}

// Service defines the interface for idea business logic. It is the single
// source of truth the API handlers, the pipeline, and the sync reconciler
// all write through.
type Service interface {
	CreateIdea(ctx context.Context, audioURI string, durationMs int64) (*models.Idea, error)
	ListIdeas(ctx context.Context, query string) ([]models.Idea, error)
	GetIdea(ctx context.Context, id string) (*models.Idea, error)
	RenameIdea(ctx context.Context, id, title string) (*models.Idea, error)
	DeleteIdea(ctx context.Context, id string) error

	// Pipeline writes. BeginProcessing and BeginRetry are the re-entrancy
	// guards: they return false when the idea is not in the expected
	// starting state.
	BeginProcessing(ctx context.Context, id string) (bool, error)
	BeginRetry(ctx context.Context, id string) (bool, error)
	SaveTranscript(ctx context.Context, id, transcript string) error
	SaveSummary(ctx context.Context, id string, summary *models.IdeaSummary) error
	MarkFailed(ctx context.Context, id, reason string) error

	// Sync reconciler reads and writes
	ListUnsynced(ctx context.Context) ([]models.Idea, error)
	MarkSynced(ctx context.Context, id string, audioCloudURL string) error
}
