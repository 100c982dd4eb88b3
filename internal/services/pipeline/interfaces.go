package pipeline

import (
	"context"

	"github.com/voxnote/ideas-api/internal/models"
)

// Transcriber converts a locally stored audio artifact into text
type Transcriber interface {
	Transcribe(ctx context.Context, audioURI string) (string, error)
}

// Summarizer extracts structured summary fields from a transcript
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (*models.IdeaSummary, error)
}
