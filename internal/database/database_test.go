package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxnote/ideas-api/internal/models"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name   string
		dbPath string
	}{
		{
			name:   "in-memory database",
			dbPath: ":memory:",
		},
		{
			name:   "file database in nested directory",
			dbPath: filepath.Join(t.TempDir(), "data", "ideas.db"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := Initialize(tt.dbPath, false)
			require.NoError(t, err)
			require.NotNil(t, conn)

			assert.NoError(t, conn.HealthCheck())
			assert.NoError(t, conn.Close())
		})
	}
}

func TestMigrate(t *testing.T) {
	conn, err := Initialize(":memory:", false)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Migrate())

	// Schema usable after migration
	idea := &models.Idea{
		ID:       "test-id",
		Title:    models.DefaultIdeaTitle,
		AudioURI: "/tmp/test.m4a",
		Status:   models.IdeaStatusRecording,
	}
	require.NoError(t, conn.Create(idea).Error)

	var count int64
	require.NoError(t, conn.Model(&models.Idea{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestHealthCheck_NotInitialized(t *testing.T) {
	var db *DB
	assert.Error(t, db.HealthCheck())
}
