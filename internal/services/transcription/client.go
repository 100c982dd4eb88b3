package transcription

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/voxnote/ideas-api/pkg/errors"
)

// Client calls the speech-to-text service over HTTP. The audio artifact is
// read from local storage and shipped base64-encoded, matching the service's
// request contract.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

// Config holds configuration for the transcription client
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// NewClient creates a new transcription client
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

type request struct {
	Audio    string `json:"audio"`
	FileName string `json:"fileName"`
}

type response struct {
	Transcript string `json:"transcript"`
	Error      string `json:"error,omitempty"`
}

// Transcribe reads the audio file at audioURI and returns its transcript
func (c *Client) Transcribe(ctx context.Context, audioURI string) (string, error) {
	if c.endpoint == "" {
		return "", errors.TranscriptionFailed(fmt.Errorf("no transcription endpoint configured"))
	}

	audio, err := os.ReadFile(audioURI)
	if err != nil {
		return "", errors.TranscriptionFailed(fmt.Errorf("reading audio file: %w", err))
	}
	if len(audio) == 0 {
		return "", errors.TranscriptionFailed(fmt.Errorf("audio file %s is empty", audioURI))
	}

	body, err := json.Marshal(request{
		Audio:    base64.StdEncoding.EncodeToString(audio),
		FileName: filepath.Base(audioURI),
	})
	if err != nil {
		return "", errors.TranscriptionFailed(fmt.Errorf("encoding request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.TranscriptionFailed(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.TranscriptionFailed(fmt.Errorf("executing request: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.TranscriptionFailed(fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[ERROR] Transcription service returned status %d", resp.StatusCode)
		return "", errors.TranscriptionFailed(fmt.Errorf("service returned status %d", resp.StatusCode))
	}

	var decoded response
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", errors.TranscriptionFailed(fmt.Errorf("decoding response: %w", err))
	}
	if decoded.Error != "" {
		return "", errors.TranscriptionFailed(fmt.Errorf("service error: %s", decoded.Error))
	}
	if decoded.Transcript == "" {
		return "", errors.TranscriptionFailed(fmt.Errorf("no transcript returned"))
	}

	return decoded.Transcript, nil
}
