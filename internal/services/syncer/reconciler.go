package syncer

import (
	"context"
	"log"

	"github.com/voxnote/ideas-api/internal/services/ideas"
)

// Reconciler pushes locally-ready, unsynced ideas to the remote store.
// Each run is best-effort: a failed item stays unsynced and is picked
// up again on the next run, which is safe because the remote upsert is
// keyed by idea id.
type Reconciler struct {
	ideas  ideas.Service
	remote RemoteStore
}

// NewReconciler creates a reconciler over the local store and remote
func NewReconciler(ideaService ideas.Service, remote RemoteStore) *Reconciler {
	return &Reconciler{
		ideas:  ideaService,
		remote: remote,
	}
}

// Run performs one sync pass and returns the number of ideas synced.
// Running without an authenticated session is a no-op, not an error.
func (r *Reconciler) Run(ctx context.Context) (int, error) {
	if !r.remote.HasSession(ctx) {
		log.Printf("[DEBUG] Sync skipped: no authenticated session")
		return 0, nil
	}

	userID, err := r.remote.UserID(ctx)
	if err != nil {
		return 0, err
	}

	unsynced, err := r.ideas.ListUnsynced(ctx)
	if err != nil {
		return 0, err
	}
	if len(unsynced) == 0 {
		return 0, nil
	}

	log.Printf("[DEBUG] Syncing %d ideas", len(unsynced))

	synced := 0
	for _, idea := range unsynced {
		// Audio upload is best effort; the record still syncs without it
		var audioCloudURL string
		if idea.AudioURI != "" {
			url, err := r.remote.UploadAudio(ctx, userID, idea.ID, idea.AudioURI)
			if err != nil {
				log.Printf("[WARN] Audio upload failed for idea %s: %v", idea.ID, err)
			} else {
				audioCloudURL = url
			}
		}

		if err := r.remote.UpsertIdea(ctx, &idea, audioCloudURL); err != nil {
			log.Printf("[WARN] Sync failed for idea %s: %v", idea.ID, err)
			continue
		}

		if err := r.ideas.MarkSynced(ctx, idea.ID, audioCloudURL); err != nil {
			log.Printf("[ERROR] Failed to mark idea %s synced: %v", idea.ID, err)
			continue
		}
		synced++
	}

	log.Printf("[DEBUG] Sync completed: %d/%d ideas", synced, len(unsynced))
	return synced, nil
}
