package types

import (
	"time"

	"github.com/voxnote/ideas-api/internal/models"
)

// ErrorResponse is the standard error envelope
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// IdeaResponse is the API shape of a single idea
type IdeaResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	RawTranscript *string   `json:"rawTranscript"`
	Summary       *string   `json:"summary"`
	KeyPoints     []string  `json:"keyPoints"`
	Tags          []string  `json:"tags"`
	AudioURI      string    `json:"audioUri"`
	AudioCloudURL *string   `json:"audioCloudUrl"`
	DurationMs    int64     `json:"durationMs"`
	Status        string    `json:"status"`
	ErrorMessage  *string   `json:"errorMessage"`
	IsSynced      bool      `json:"isSynced"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// IdeasResponse is the list envelope
type IdeasResponse struct {
	Ideas []IdeaResponse `json:"ideas"`
	Count int            `json:"count"`
}

// SyncResponse reports the outcome of one sync run
type SyncResponse struct {
	Synced int `json:"synced"`
}

// ToIdeaResponse converts a stored idea to its API shape
func ToIdeaResponse(idea *models.Idea) IdeaResponse {
	return IdeaResponse{
		ID:            idea.ID,
		Title:         idea.Title,
		RawTranscript: idea.RawTranscript,
		Summary:       idea.Summary,
		KeyPoints:     idea.KeyPoints,
		Tags:          idea.Tags,
		AudioURI:      idea.AudioURI,
		AudioCloudURL: idea.AudioCloudURL,
		DurationMs:    idea.DurationMs,
		Status:        string(idea.Status),
		ErrorMessage:  idea.ErrorMessage,
		IsSynced:      idea.IsSynced,
		CreatedAt:     idea.CreatedAt,
		UpdatedAt:     idea.UpdatedAt,
	}
}

// ToIdeasResponse converts a list of stored ideas to the list envelope
func ToIdeasResponse(ideas []models.Idea) IdeasResponse {
	out := make([]IdeaResponse, 0, len(ideas))
	for i := range ideas {
		out = append(out, ToIdeaResponse(&ideas[i]))
	}
	return IdeasResponse{Ideas: out, Count: len(out)}
}
