package ideas

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/voxnote/ideas-api/internal/models"
	"github.com/voxnote/ideas-api/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateIdea(ctx context.Context, idea *models.Idea) error {
	args := m.Called(ctx, idea)
	return args.Error(0)
}

func (m *MockRepository) GetAllIdeas(ctx context.Context) ([]models.Idea, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Idea), args.Error(1)
}

func (m *MockRepository) GetIdeaByID(ctx context.Context, id string) (*models.Idea, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Idea), args.Error(1)
}

func (m *MockRepository) SearchIdeas(ctx context.Context, query string) ([]models.Idea, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]models.Idea), args.Error(1)
}

func (m *MockRepository) ListUnsynced(ctx context.Context) ([]models.Idea, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Idea), args.Error(1)
}

func (m *MockRepository) TransitionStatus(ctx context.Context, id string, from, to models.IdeaStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) SetTranscript(ctx context.Context, id, transcript string) error {
	args := m.Called(ctx, id, transcript)
	return args.Error(0)
}

func (m *MockRepository) SetSummary(ctx context.Context, id string, summary *models.IdeaSummary) error {
	args := m.Called(ctx, id, summary)
	return args.Error(0)
}

func (m *MockRepository) SetError(ctx context.Context, id, message string) error {
	args := m.Called(ctx, id, message)
	return args.Error(0)
}

func (m *MockRepository) SetTitle(ctx context.Context, id, title string) error {
	args := m.Called(ctx, id, title)
	return args.Error(0)
}

func (m *MockRepository) MarkSynced(ctx context.Context, id string, audioCloudURL string) error {
	args := m.Called(ctx, id, audioCloudURL)
	return args.Error(0)
}

func (m *MockRepository) DeleteIdea(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestServiceImpl_CreateIdea(t *testing.T) {
	ctx := context.Background()

	t.Run("generates id and defaults", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo)

		mockRepo.On("CreateIdea", ctx, mock.AnythingOfType("*models.Idea")).
			Run(func(args mock.Arguments) {
				idea := args.Get(1).(*models.Idea)
				assert.Len(t, idea.ID, 36)
				assert.Equal(t, models.DefaultIdeaTitle, idea.Title)
				assert.Equal(t, models.IdeaStatusRecording, idea.Status)
				assert.False(t, idea.IsSynced)
			}).
			Return(nil)

		idea, err := service.CreateIdea(ctx, "/tmp/clip.m4a", 3200)
		require.NoError(t, err)
		assert.NotEmpty(t, idea.ID)
		assert.EqualValues(t, 3200, idea.DurationMs)

		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects missing audio URI", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo)

		_, err := service.CreateIdea(ctx, "", 1000)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "audio URI")
	})

	t.Run("rejects negative duration", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo)

		_, err := service.CreateIdea(ctx, "/tmp/clip.m4a", -1)
		require.Error(t, err)
	})
}

func TestServiceImpl_RenameIdea(t *testing.T) {
	ctx := context.Background()

	t.Run("trims and stores the title", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo)

		mockRepo.On("SetTitle", ctx, "idea-1", "Morning Thoughts").Return(nil)
		mockRepo.On("GetIdeaByID", ctx, "idea-1").
			Return(&models.Idea{ID: "idea-1", Title: "Morning Thoughts"}, nil)

		idea, err := service.RenameIdea(ctx, "idea-1", "  Morning Thoughts  ")
		require.NoError(t, err)
		assert.Equal(t, "Morning Thoughts", idea.Title)

		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects whitespace-only title", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo)

		_, err := service.RenameIdea(ctx, "idea-1", "   ")
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeValidation, errors.GetCode(err))
		mockRepo.AssertNotCalled(t, "SetTitle")
	})
}

func TestServiceImpl_DeleteIdea(t *testing.T) {
	ctx := context.Background()

	t.Run("removes audio file first then the record", func(t *testing.T) {
		audioPath := filepath.Join(t.TempDir(), "clip.m4a")
		require.NoError(t, os.WriteFile(audioPath, []byte("audio"), 0644))

		mockRepo := new(MockRepository)
		service := NewService(mockRepo)

		mockRepo.On("GetIdeaByID", ctx, "idea-1").
			Return(&models.Idea{ID: "idea-1", AudioURI: audioPath}, nil)
		mockRepo.On("DeleteIdea", ctx, "idea-1").Return(nil)

		require.NoError(t, service.DeleteIdea(ctx, "idea-1"))

		_, err := os.Stat(audioPath)
		assert.True(t, os.IsNotExist(err))
		mockRepo.AssertExpectations(t)
	})

	t.Run("deletes record even when audio file is already gone", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo)

		mockRepo.On("GetIdeaByID", ctx, "idea-1").
			Return(&models.Idea{ID: "idea-1", AudioURI: "/nonexistent/clip.m4a"}, nil)
		mockRepo.On("DeleteIdea", ctx, "idea-1").Return(nil)

		require.NoError(t, service.DeleteIdea(ctx, "idea-1"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("propagates not found", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo)

		mockRepo.On("GetIdeaByID", ctx, "missing").Return(nil, ErrIdeaNotFound)

		err := service.DeleteIdea(ctx, "missing")
		assert.ErrorIs(t, err, ErrIdeaNotFound)
	})
}

func TestServiceImpl_SaveSummary_Validation(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	err := service.SaveSummary(ctx, "idea-1", &models.IdeaSummary{Summary: "S"})
	require.Error(t, err)

	err = service.SaveSummary(ctx, "idea-1", nil)
	require.Error(t, err)

	mockRepo.AssertNotCalled(t, "SetSummary")
}

func TestServiceImpl_MarkFailed_DefaultReason(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	mockRepo.On("SetError", ctx, "idea-1", "processing failed").Return(nil)

	require.NoError(t, service.MarkFailed(ctx, "idea-1", ""))
	mockRepo.AssertExpectations(t)
}
