package remote

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"

	"github.com/voxnote/ideas-api/internal/models"
	"github.com/voxnote/ideas-api/internal/services/syncer"
)

const ideasTable = "ideas"

// Config holds the Supabase connection settings
type Config struct {
	URL      string
	AnonKey  string
	Email    string
	Password string
	Bucket   string
}

// Store pushes ideas to a Supabase project: audio files go to a
// storage bucket under <user-id>/<idea-id>.m4a, records go to the
// ideas table via an id-keyed upsert.
type Store struct {
	config Config

	mu     sync.Mutex
	client *supabase.Client
	userID string
}

var _ syncer.RemoteStore = (*Store)(nil)

// NewStore creates a Supabase-backed remote store. No connection is
// made until the first sync run asks for a session.
func NewStore(config Config) *Store {
	if config.Bucket == "" {
		config.Bucket = "recordings"
	}
	return &Store{config: config}
}

// HasSession reports whether sign-in succeeded or can succeed now
func (s *Store) HasSession(ctx context.Context) bool {
	if err := s.ensureSession(ctx); err != nil {
		log.Printf("[DEBUG] No remote session: %v", err)
		return false
	}
	return true
}

// UserID returns the authenticated user's id
func (s *Store) UserID(ctx context.Context) (string, error) {
	if err := s.ensureSession(ctx); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, nil
}

// ensureSession signs in with the configured credentials once and
// caches the client for subsequent calls
func (s *Store) ensureSession(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return nil
	}
	if s.config.URL == "" || s.config.AnonKey == "" {
		return fmt.Errorf("remote store not configured")
	}
	if s.config.Email == "" || s.config.Password == "" {
		return fmt.Errorf("no remote credentials configured")
	}

	client, err := supabase.NewClient(s.config.URL, s.config.AnonKey, &supabase.ClientOptions{})
	if err != nil {
		return fmt.Errorf("creating supabase client: %w", err)
	}

	session, err := client.SignInWithEmailPassword(s.config.Email, s.config.Password)
	if err != nil {
		return fmt.Errorf("signing in: %w", err)
	}

	s.client = client
	s.userID = session.User.ID.String()
	log.Printf("[DEBUG] Remote session established for user %s", s.userID)
	return nil
}

// UploadAudio stores the local audio file in the recordings bucket and
// returns its public URL
func (s *Store) UploadAudio(_ context.Context, userID, ideaID, localPath string) (string, error) {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil {
		return "", fmt.Errorf("no remote session")
	}

	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("opening audio file: %w", err)
	}
	defer file.Close()

	objectPath := fmt.Sprintf("%s/%s%s", userID, ideaID, filepath.Ext(localPath))
	contentType := "audio/m4a"
	upsert := true

	_, err = client.Storage.UploadFile(s.config.Bucket, objectPath, file, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("uploading audio: %w", err)
	}

	return client.Storage.GetPublicUrl(s.config.Bucket, objectPath).SignedURL, nil
}

// ideaRow is the remote-table shape of an idea
type ideaRow struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	Title         string            `json:"title"`
	RawTranscript *string           `json:"raw_transcript"`
	Summary       *string           `json:"summary"`
	KeyPoints     models.StringList `json:"key_points"`
	Tags          models.StringList `json:"tags"`
	AudioCloudURL *string           `json:"audio_cloud_url"`
	DurationMs    int64             `json:"duration"`
	Status        string            `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// UpsertIdea writes the idea's record to the remote ideas table
func (s *Store) UpsertIdea(ctx context.Context, idea *models.Idea, audioCloudURL string) error {
	s.mu.Lock()
	client := s.client
	userID := s.userID
	s.mu.Unlock()
	if client == nil {
		return fmt.Errorf("no remote session")
	}

	row := ideaRow{
		ID:            idea.ID,
		UserID:        userID,
		Title:         idea.Title,
		RawTranscript: idea.RawTranscript,
		Summary:       idea.Summary,
		KeyPoints:     idea.KeyPoints,
		Tags:          idea.Tags,
		DurationMs:    idea.DurationMs,
		Status:        string(idea.Status),
		CreatedAt:     idea.CreatedAt,
		UpdatedAt:     idea.UpdatedAt,
	}
	if audioCloudURL != "" {
		row.AudioCloudURL = &audioCloudURL
	} else {
		row.AudioCloudURL = idea.AudioCloudURL
	}

	_, _, err := client.From(ideasTable).Upsert(row, "id", "minimal", "").Execute()
	if err != nil {
		return fmt.Errorf("upserting idea %s: %w", idea.ID, err)
	}
	return nil
}
