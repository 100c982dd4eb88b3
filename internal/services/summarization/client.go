package summarization

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/voxnote/ideas-api/internal/models"
	"github.com/voxnote/ideas-api/pkg/errors"
)

// Client calls the structured-extraction service over HTTP. The service
// proxies the transcript plus extraction instructions to a language model
// and returns the model's raw text, which the codec parses.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

// Config holds configuration for the summarization client
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// NewClient creates a new summarization client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
	}
}

// response is the service envelope around the model's raw output
type response struct {
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

// Summarize sends the transcript out for structured extraction and returns
// the validated summary fields.
func (c *Client) Summarize(ctx context.Context, transcript string) (*models.IdeaSummary, error) {
	if c.endpoint == "" {
		return nil, errors.SummarizationFailed(fmt.Errorf("no summarization endpoint configured"))
	}
	if transcript == "" {
		return nil, errors.SummarizationFailed(fmt.Errorf("empty transcript"))
	}

	body, err := json.Marshal(BuildRequest(transcript))
	if err != nil {
		return nil, errors.SummarizationFailed(fmt.Errorf("encoding request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.SummarizationFailed(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.SummarizationFailed(fmt.Errorf("executing request: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.SummarizationFailed(fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[ERROR] Summarization service returned status %d", resp.StatusCode)
		return nil, errors.SummarizationFailed(fmt.Errorf("service returned status %d", resp.StatusCode))
	}

	var envelope response
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, errors.SummarizationFailed(fmt.Errorf("decoding response: %w", err))
	}
	if envelope.Error != "" {
		return nil, errors.SummarizationFailed(fmt.Errorf("service error: %s", envelope.Error))
	}

	summary, err := ParseResponse(envelope.Content)
	if err != nil {
		return nil, errors.SummarizationFailed(err)
	}

	return summary, nil
}
