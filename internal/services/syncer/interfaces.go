package syncer

import (
	"context"

	"github.com/voxnote/ideas-api/internal/models"
)

// RemoteStore is the authenticated remote side of sync: object storage
// for audio artifacts plus a keyed upsert for idea records
type RemoteStore interface {
	// HasSession reports whether an authenticated session is available
	HasSession(ctx context.Context) bool
	// UserID identifies the authenticated user, used to key storage paths
	UserID(ctx context.Context) (string, error)
	// UploadAudio stores the audio file for an idea and returns an
	// accessible URL for it
	UploadAudio(ctx context.Context, userID, ideaID, localPath string) (string, error)
	// UpsertIdea writes the idea's record remotely, keyed by its id
	UpsertIdea(ctx context.Context, idea *models.Idea, audioCloudURL string) error
}
