package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/voxnote/ideas-api/api/types"
	"github.com/voxnote/ideas-api/internal/database"
	"github.com/voxnote/ideas-api/internal/models"
	ideasService "github.com/voxnote/ideas-api/internal/services/ideas"
	"github.com/voxnote/ideas-api/internal/services/syncer"
)

// MockRemoteStore is a mock implementation of the syncer RemoteStore
type MockRemoteStore struct {
	mock.Mock
}

func (m *MockRemoteStore) HasSession(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockRemoteStore) UserID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockRemoteStore) UploadAudio(ctx context.Context, userID, ideaID, localPath string) (string, error) {
	args := m.Called(ctx, userID, ideaID, localPath)
	return args.String(0), args.Error(1)
}

func (m *MockRemoteStore) UpsertIdea(ctx context.Context, idea *models.Idea, audioCloudURL string) error {
	args := m.Called(ctx, idea, audioCloudURL)
	return args.Error(0)
}

func setupRouter(t *testing.T, remote syncer.RemoteStore) (*gin.Engine, ideasService.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	store := ideasService.NewService(ideasService.NewRepository(db.DB))
	deps := &types.Dependencies{
		DB:          db,
		IdeaService: store,
		Reconciler:  syncer.NewReconciler(store, remote),
	}

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1/sync"), deps)
	return router, store
}

func TestPostRun_NoSession(t *testing.T) {
	remote := new(MockRemoteStore)
	remote.On("HasSession", mock.Anything).Return(false)
	router, _ := setupRouter(t, remote)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var response types.SyncResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Zero(t, response.Synced)
}

func TestPostRun_SyncsReadyIdeas(t *testing.T) {
	ctx := context.Background()

	remote := new(MockRemoteStore)
	remote.On("HasSession", mock.Anything).Return(true)
	remote.On("UserID", mock.Anything).Return("user-1", nil)
	remote.On("UploadAudio", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("https://cdn.example/audio.m4a", nil)
	remote.On("UpsertIdea", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	router, store := setupRouter(t, remote)

	idea, err := store.CreateIdea(ctx, "/tmp/clip.m4a", 1000)
	require.NoError(t, err)
	ok, err := store.BeginProcessing(ctx, idea.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, store.SaveTranscript(ctx, idea.ID, "transcript"))
	require.NoError(t, store.SaveSummary(ctx, idea.ID, &models.IdeaSummary{Title: "T", Summary: "S"}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var response types.SyncResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Synced)

	after, err := store.GetIdea(ctx, idea.ID)
	require.NoError(t, err)
	assert.True(t, after.IsSynced)
}
