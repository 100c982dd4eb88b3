package summarization

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/voxnote/ideas-api/internal/models"
)

// ErrParseFailed indicates the model response could not be decoded into the
// required summary fields. Callers classify it as a summarization failure
// rather than letting a decode error escape the pipeline.
var ErrParseFailed = errors.New("summary response parse failed")

// extractionPrompt instructs the model to return strict JSON. The transcript
// may be informal and full of filler words; the prompt tells the model to
// ignore those.
const extractionPrompt = `You are an idea extraction assistant. Given a raw voice transcript, extract and structure the following:

1. **Title**: A concise, descriptive title (max 10 words)
2. **Summary**: A clear, actionable summary (2-4 sentences)
3. **Key Points**: Bullet points of the core ideas (3-7 points)
4. **Tags**: Relevant category tags (2-5 tags, lowercase)

The transcript may be informal, rambling, or contain filler words like "um", "uh", "like", "you know".
Focus on extracting the actual ideas and intentions. Ignore filler and repetition.

Respond ONLY with valid JSON in this exact format:
{
  "title": "...",
  "summary": "...",
  "keyPoints": ["...", "..."],
  "tags": ["...", "..."]
}`

// Request is the outbound payload for the structured-extraction service
type Request struct {
	Transcript   string `json:"transcript"`
	Instructions string `json:"instructions"`
}

// BuildRequest produces the extraction request for a raw transcript
func BuildRequest(transcript string) Request {
	return Request{
		Transcript:   transcript,
		Instructions: extractionPrompt,
	}
}

// rawSummary mirrors the model's JSON output before validation. KeyPoints
// and tags are decoded leniently: anything that is not a list of strings
// collapses to an empty list.
type rawSummary struct {
	Title     string          `json:"title"`
	Summary   string          `json:"summary"`
	KeyPoints json.RawMessage `json:"keyPoints"`
	Tags      json.RawMessage `json:"tags"`
}

// ParseResponse decodes the model's raw text into a validated summary.
// Surrounding markdown code fences are stripped before decoding. Missing or
// empty title/summary yields ErrParseFailed.
func ParseResponse(raw string) (*models.IdeaSummary, error) {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrParseFailed)
	}

	var decoded rawSummary
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	if strings.TrimSpace(decoded.Title) == "" {
		return nil, fmt.Errorf("%w: missing title", ErrParseFailed)
	}
	if strings.TrimSpace(decoded.Summary) == "" {
		return nil, fmt.Errorf("%w: missing summary", ErrParseFailed)
	}

	return &models.IdeaSummary{
		Title:     decoded.Title,
		Summary:   decoded.Summary,
		KeyPoints: decodeStringList(decoded.KeyPoints),
		Tags:      decodeStringList(decoded.Tags),
	}, nil
}

// stripCodeFences removes an optional ```json ... ``` wrapper around the
// response body.
func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	// Drop an optional language hint on the opening fence
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		first := strings.TrimSpace(trimmed[:idx])
		if first == "json" || first == "" {
			trimmed = trimmed[idx+1:]
		}
	}

	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func decodeStringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return []string{}
	}
	return list
}
