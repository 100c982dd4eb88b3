package ideas

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/voxnote/ideas-api/internal/models"
	"github.com/voxnote/ideas-api/pkg/errors"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
}

var _ Service = (*ServiceImpl)(nil)

// NewService creates a new idea service
func NewService(repository Repository) Service {
	return &ServiceImpl{
		repository: repository,
	}
}

// CreateIdea inserts a fresh idea for a just-finished recording. The id is
// generated here and the idea starts in the recording status with the
// placeholder title.
func (s *ServiceImpl) CreateIdea(ctx context.Context, audioURI string, durationMs int64) (*models.Idea, error) {
	if audioURI == "" {
		return nil, fmt.Errorf("audio URI is required")
	}
	if durationMs < 0 {
		return nil, fmt.Errorf("duration must not be negative")
	}

	idea := &models.Idea{
		ID:         uuid.New().String(),
		Title:      models.DefaultIdeaTitle,
		AudioURI:   audioURI,
		DurationMs: durationMs,
		Status:     models.IdeaStatusRecording,
		KeyPoints:  models.StringList{},
		Tags:       models.StringList{},
	}

	if err := s.repository.CreateIdea(ctx, idea); err != nil {
		return nil, err
	}
	return idea, nil
}

// ListIdeas returns ideas matching the query, or all ideas for an empty query
func (s *ServiceImpl) ListIdeas(ctx context.Context, query string) ([]models.Idea, error) {
	return s.repository.SearchIdeas(ctx, strings.TrimSpace(query))
}

// GetIdea returns a single idea by id
func (s *ServiceImpl) GetIdea(ctx context.Context, id string) (*models.Idea, error) {
	return s.repository.GetIdeaByID(ctx, id)
}

// RenameIdea sets a user-chosen title. The title must be non-empty after
// trimming; the trimmed value is stored.
func (s *ServiceImpl) RenameIdea(ctx context.Context, id, title string) (*models.Idea, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return nil, errors.New(errors.ErrCodeValidation, "title must not be empty")
	}

	if err := s.repository.SetTitle(ctx, id, trimmed); err != nil {
		return nil, err
	}
	return s.repository.GetIdeaByID(ctx, id)
}

// DeleteIdea removes the idea and its audio artifact. The file delete is
// best-effort and runs first; the row is removed regardless so a failed file
// delete never leaves a phantom idea in the store.
func (s *ServiceImpl) DeleteIdea(ctx context.Context, id string) error {
	idea, err := s.repository.GetIdeaByID(ctx, id)
	if err != nil {
		return err
	}

	if idea.AudioURI != "" {
		if err := os.Remove(idea.AudioURI); err != nil && !os.IsNotExist(err) {
			log.Printf("[WARN] Failed to delete audio file %s: %v", idea.AudioURI, err)
		}
	}

	return s.repository.DeleteIdea(ctx, id)
}

// BeginProcessing moves the idea from recording to transcribing. Returns
// false when the idea already left the recording status, which prevents a
// second pipeline run for the same recording.
func (s *ServiceImpl) BeginProcessing(ctx context.Context, id string) (bool, error) {
	return s.repository.TransitionStatus(ctx, id, models.IdeaStatusRecording, models.IdeaStatusTranscribing)
}

// BeginRetry moves a failed idea back to transcribing for an explicit,
// user-initiated re-run of the full pipeline.
func (s *ServiceImpl) BeginRetry(ctx context.Context, id string) (bool, error) {
	return s.repository.TransitionStatus(ctx, id, models.IdeaStatusError, models.IdeaStatusTranscribing)
}

// SaveTranscript persists the transcript and advances to summarizing
func (s *ServiceImpl) SaveTranscript(ctx context.Context, id, transcript string) error {
	return s.repository.SetTranscript(ctx, id, transcript)
}

// SaveSummary validates and persists the structured summary, marking the
// idea ready.
func (s *ServiceImpl) SaveSummary(ctx context.Context, id string, summary *models.IdeaSummary) error {
	if summary == nil || summary.Title == "" || summary.Summary == "" {
		return fmt.Errorf("summary must include a title and summary text")
	}
	return s.repository.SetSummary(ctx, id, summary)
}

// MarkFailed records a pipeline failure against the idea
func (s *ServiceImpl) MarkFailed(ctx context.Context, id, reason string) error {
	if reason == "" {
		reason = "processing failed"
	}
	return s.repository.SetError(ctx, id, reason)
}

// ListUnsynced returns ready ideas that still need a push to the remote store
func (s *ServiceImpl) ListUnsynced(ctx context.Context) ([]models.Idea, error) {
	return s.repository.ListUnsynced(ctx)
}

// MarkSynced records a successful remote upsert for the idea
func (s *ServiceImpl) MarkSynced(ctx context.Context, id string, audioCloudURL string) error {
	return s.repository.MarkSynced(ctx, id, audioCloudURL)
}
