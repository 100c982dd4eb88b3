package models

// IdeaSummary holds the structured fields extracted from a transcript
type IdeaSummary struct {
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
	Tags      []string `json:"tags"`
}
