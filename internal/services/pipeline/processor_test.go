package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/voxnote/ideas-api/internal/models"
	"github.com/voxnote/ideas-api/internal/services/ideas"
	"github.com/voxnote/ideas-api/pkg/errors"
)

// MockTranscriber is a mock implementation of the Transcriber interface
type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audioURI string) (string, error) {
	args := m.Called(ctx, audioURI)
	return args.String(0), args.Error(1)
}

// MockSummarizer is a mock implementation of the Summarizer interface
type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) Summarize(ctx context.Context, transcript string) (*models.IdeaSummary, error) {
	args := m.Called(ctx, transcript)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.IdeaSummary), args.Error(1)
}

func setupStore(t *testing.T) ideas.Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Idea{}))

	return ideas.NewService(ideas.NewRepository(db))
}

func TestProcessor_Process_FullRun(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	idea, err := store.CreateIdea(ctx, "/tmp/clip.m4a", 3200)
	require.NoError(t, err)

	transcriber := new(MockTranscriber)
	summarizer := new(MockSummarizer)
	processor := NewProcessor(store, transcriber, summarizer)

	transcriber.On("Transcribe", mock.Anything, "/tmp/clip.m4a").
		Return("buy milk and call mom", nil)
	summarizer.On("Summarize", mock.Anything, "buy milk and call mom").
		Return(&models.IdeaSummary{
			Title:     "Errands",
			Summary:   "Buy milk and call mom today.",
			KeyPoints: []string{"buy milk", "call mom"},
			Tags:      []string{"personal"},
		}, nil)

	require.NoError(t, processor.Process(ctx, idea.ID))

	final, err := store.GetIdea(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IdeaStatusReady, final.Status)
	assert.Equal(t, "Errands", final.Title)
	require.NotNil(t, final.RawTranscript)
	assert.Equal(t, "buy milk and call mom", *final.RawTranscript)
	require.NotNil(t, final.Summary)
	assert.Equal(t, "Buy milk and call mom today.", *final.Summary)
	assert.Equal(t, models.StringList{"buy milk", "call mom"}, final.KeyPoints)
	assert.Equal(t, models.StringList{"personal"}, final.Tags)
	assert.EqualValues(t, 3200, final.DurationMs)
	assert.Nil(t, final.ErrorMessage)

	transcriber.AssertExpectations(t)
	summarizer.AssertExpectations(t)
}

func TestProcessor_Process_TranscriptionFailure(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	idea, err := store.CreateIdea(ctx, "/tmp/clip.m4a", 1000)
	require.NoError(t, err)

	transcriber := new(MockTranscriber)
	summarizer := new(MockSummarizer)
	processor := NewProcessor(store, transcriber, summarizer)

	transcriber.On("Transcribe", mock.Anything, mock.Anything).
		Return("", errors.TranscriptionFailed(assert.AnError))

	require.NoError(t, processor.Process(ctx, idea.ID))

	final, err := store.GetIdea(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IdeaStatusError, final.Status)
	require.NotNil(t, final.ErrorMessage)
	assert.Contains(t, *final.ErrorMessage, "TRANSCRIPTION_FAILED")
	assert.Nil(t, final.RawTranscript)

	// Summarization never runs after a transcription failure
	summarizer.AssertNotCalled(t, "Summarize")
}

func TestProcessor_Process_SummarizationFailure(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	idea, err := store.CreateIdea(ctx, "/tmp/clip.m4a", 1000)
	require.NoError(t, err)

	transcriber := new(MockTranscriber)
	summarizer := new(MockSummarizer)
	processor := NewProcessor(store, transcriber, summarizer)

	transcriber.On("Transcribe", mock.Anything, mock.Anything).
		Return("a transcript", nil)
	summarizer.On("Summarize", mock.Anything, "a transcript").
		Return(nil, errors.SummarizationFailed(assert.AnError))

	require.NoError(t, processor.Process(ctx, idea.ID))

	final, err := store.GetIdea(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IdeaStatusError, final.Status)
	require.NotNil(t, final.ErrorMessage)
	assert.Contains(t, *final.ErrorMessage, "SUMMARIZATION_FAILED")

	// The transcript from the successful first stage is preserved
	require.NotNil(t, final.RawTranscript)
	assert.Equal(t, "a transcript", *final.RawTranscript)
}

func TestProcessor_Process_DuplicateRunSkipped(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	idea, err := store.CreateIdea(ctx, "/tmp/clip.m4a", 1000)
	require.NoError(t, err)

	transcriber := new(MockTranscriber)
	summarizer := new(MockSummarizer)
	processor := NewProcessor(store, transcriber, summarizer)

	transcriber.On("Transcribe", mock.Anything, mock.Anything).
		Return("text", nil).Once()
	summarizer.On("Summarize", mock.Anything, "text").
		Return(&models.IdeaSummary{Title: "T", Summary: "S"}, nil).Once()

	require.NoError(t, processor.Process(ctx, idea.ID))

	// A second run finds the idea no longer in recording and does nothing
	require.NoError(t, processor.Process(ctx, idea.ID))

	transcriber.AssertNumberOfCalls(t, "Transcribe", 1)
	summarizer.AssertNumberOfCalls(t, "Summarize", 1)
}

func TestProcessor_Retry(t *testing.T) {
	ctx := context.Background()

	t.Run("re-runs the full pipeline for a failed idea", func(t *testing.T) {
		store := setupStore(t)
		idea, err := store.CreateIdea(ctx, "/tmp/clip.m4a", 1000)
		require.NoError(t, err)

		transcriber := new(MockTranscriber)
		summarizer := new(MockSummarizer)
		processor := NewProcessor(store, transcriber, summarizer)

		// First run fails at transcription
		transcriber.On("Transcribe", mock.Anything, mock.Anything).
			Return("", errors.TranscriptionFailed(assert.AnError)).Once()
		require.NoError(t, processor.Process(ctx, idea.ID))

		// Retry succeeds end to end
		transcriber.On("Transcribe", mock.Anything, mock.Anything).
			Return("second attempt", nil).Once()
		summarizer.On("Summarize", mock.Anything, "second attempt").
			Return(&models.IdeaSummary{Title: "T", Summary: "S"}, nil).Once()

		accepted, err := processor.Retry(ctx, idea.ID)
		require.NoError(t, err)
		assert.True(t, accepted)

		processor.Wait()

		final, err := store.GetIdea(ctx, idea.ID)
		require.NoError(t, err)
		assert.Equal(t, models.IdeaStatusReady, final.Status)
		assert.Nil(t, final.ErrorMessage)
	})

	t.Run("rejects retry for an idea not in error", func(t *testing.T) {
		store := setupStore(t)
		idea, err := store.CreateIdea(ctx, "/tmp/clip.m4a", 1000)
		require.NoError(t, err)

		processor := NewProcessor(store, new(MockTranscriber), new(MockSummarizer))

		accepted, err := processor.Retry(ctx, idea.ID)
		require.NoError(t, err)
		assert.False(t, accepted)
	})
}

func TestProcessor_Trigger_Detached(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	idea, err := store.CreateIdea(ctx, "/tmp/clip.m4a", 1000)
	require.NoError(t, err)

	transcriber := new(MockTranscriber)
	summarizer := new(MockSummarizer)
	processor := NewProcessor(store, transcriber, summarizer)

	transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("text", nil)
	summarizer.On("Summarize", mock.Anything, "text").
		Return(&models.IdeaSummary{Title: "T", Summary: "S"}, nil)

	processor.Trigger(idea.ID)
	processor.Wait()

	final, err := store.GetIdea(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IdeaStatusReady, final.Status)
}
