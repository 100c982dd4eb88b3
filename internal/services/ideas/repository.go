package ideas

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/voxnote/ideas-api/internal/models"
)

// ErrIdeaNotFound is returned when no idea exists for the given id
var ErrIdeaNotFound = errors.New("idea not found")

// RepositoryImpl implements the Repository interface on GORM/SQLite
type RepositoryImpl struct {
	db *gorm.DB
}

var _ Repository = (*RepositoryImpl)(nil)

// NewRepository creates a new idea repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// CreateIdea inserts a new idea row
func (r *RepositoryImpl) CreateIdea(ctx context.Context, idea *models.Idea) error {
	if err := r.db.WithContext(ctx).Create(idea).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("idea %s already exists", idea.ID)
		}
		return fmt.Errorf("creating idea: %w", err)
	}
	return nil
}

// GetAllIdeas returns every idea, most recent first
func (r *RepositoryImpl) GetAllIdeas(ctx context.Context) ([]models.Idea, error) {
	var list []models.Idea
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("getting ideas: %w", err)
	}
	return list, nil
}

// GetIdeaByID returns a single idea or ErrIdeaNotFound
func (r *RepositoryImpl) GetIdeaByID(ctx context.Context, id string) (*models.Idea, error) {
	var idea models.Idea
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&idea).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("getting idea: %w", err)
	}
	return &idea, nil
}

// SearchIdeas does a case-insensitive substring match over title, summary,
// transcript, and the serialized tag list, most recent first.
func (r *RepositoryImpl) SearchIdeas(ctx context.Context, query string) ([]models.Idea, error) {
	if query == "" {
		return r.GetAllIdeas(ctx)
	}

	// SQLite LIKE is case-insensitive for ASCII by default
	pattern := "%" + query + "%"

	var list []models.Idea
	if err := r.db.WithContext(ctx).
		Where("title LIKE ? OR summary LIKE ? OR raw_transcript LIKE ? OR tags LIKE ?",
			pattern, pattern, pattern, pattern).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("searching ideas: %w", err)
	}
	return list, nil
}

// ListUnsynced returns ready, unsynced ideas oldest-first so the reconciler
// drains the backlog in creation order.
func (r *RepositoryImpl) ListUnsynced(ctx context.Context) ([]models.Idea, error) {
	var list []models.Idea
	if err := r.db.WithContext(ctx).
		Where("is_synced = ? AND status = ?", false, models.IdeaStatusReady).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing unsynced ideas: %w", err)
	}
	return list, nil
}

// TransitionStatus moves an idea from one status to another as a single
// conditional update. Returns false (no error) when the idea was not in the
// expected starting status, which callers use as a double-processing guard.
func (r *RepositoryImpl) TransitionStatus(ctx context.Context, id string, from, to models.IdeaStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Idea{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":        to,
			"error_message": nil,
		})
	if result.Error != nil {
		return false, fmt.Errorf("transitioning idea status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// SetTranscript persists the raw transcript and advances the idea to the
// summarizing stage in one atomic write.
func (r *RepositoryImpl) SetTranscript(ctx context.Context, id, transcript string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Idea{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"raw_transcript": transcript,
			"status":         models.IdeaStatusSummarizing,
			"error_message":  nil,
		})
	if result.Error != nil {
		return fmt.Errorf("setting transcript: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrIdeaNotFound
	}
	return nil
}

// SetSummary persists the structured summary fields and marks the idea ready
func (r *RepositoryImpl) SetSummary(ctx context.Context, id string, summary *models.IdeaSummary) error {
	result := r.db.WithContext(ctx).
		Model(&models.Idea{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":         summary.Title,
			"summary":       summary.Summary,
			"key_points":    models.StringList(summary.KeyPoints),
			"tags":          models.StringList(summary.Tags),
			"status":        models.IdeaStatusReady,
			"error_message": nil,
		})
	if result.Error != nil {
		return fmt.Errorf("setting summary: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrIdeaNotFound
	}
	return nil
}

// SetError marks the idea failed with the given message
func (r *RepositoryImpl) SetError(ctx context.Context, id, message string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Idea{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.IdeaStatusError,
			"error_message": message,
		})
	if result.Error != nil {
		return fmt.Errorf("setting idea error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrIdeaNotFound
	}
	return nil
}

// SetTitle renames the idea. A rename invalidates the last sync so the
// reconciler pushes the new title on its next run.
func (r *RepositoryImpl) SetTitle(ctx context.Context, id, title string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Idea{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":     title,
			"is_synced": false,
		})
	if result.Error != nil {
		return fmt.Errorf("setting idea title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrIdeaNotFound
	}
	return nil
}

// MarkSynced flags the idea as pushed to the remote store. Idempotent: an
// already-synced idea stays synced. The cloud URL is recorded when the audio
// upload succeeded.
func (r *RepositoryImpl) MarkSynced(ctx context.Context, id string, audioCloudURL string) error {
	updates := map[string]interface{}{
		"is_synced": true,
	}
	if audioCloudURL != "" {
		updates["audio_cloud_url"] = audioCloudURL
	}

	result := r.db.WithContext(ctx).
		Model(&models.Idea{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("marking idea synced: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrIdeaNotFound
	}
	return nil
}

// DeleteIdea removes the idea row permanently
func (r *RepositoryImpl) DeleteIdea(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Idea{})
	if result.Error != nil {
		return fmt.Errorf("deleting idea: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrIdeaNotFound
	}
	return nil
}
