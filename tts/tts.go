// Package tts is the narrow client for the speech-synthesis service: text and
// voice id in, MP3 bytes out or failure. Synthesis failure skips the scene;
// it never aborts a run.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"aigongjang/config"
	"aigongjang/types"
)

// Client synthesizes narration audio.
type Client interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// RESTClient talks to an HTTP synthesize endpoint that accepts a JSON body
// and responds with raw audio bytes.
type RESTClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewRESTClient reads TTS_URL and TTS_API_KEY from the environment.
func NewRESTClient() (*RESTClient, error) {
	baseURL := os.Getenv("TTS_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("TTS_URL environment variable not set")
	}
	return &RESTClient{
		baseURL: baseURL,
		apiKey:  os.Getenv("TTS_API_KEY"),
		client:  &http.Client{Timeout: config.GenerationTimeout},
	}, nil
}

type synthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// Synthesize requests speech for the given text. Timeouts and non-200
// responses are reported as upstream generation failures.
func (c *RESTClient) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	body, err := json.Marshal(synthesizeRequest{Text: text, Voice: voice})
	if err != nil {
		return nil, types.UpstreamGenerationError("tts", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/synthesize", bytes.NewReader(body))
	if err != nil {
		return nil, types.UpstreamGenerationError("tts", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, types.UpstreamGenerationError("tts", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, types.UpstreamGenerationError("tts", fmt.Errorf("status %d", resp.StatusCode))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.UpstreamGenerationError("tts", err)
	}
	if len(audio) == 0 {
		return nil, types.UpstreamGenerationError("tts", fmt.Errorf("empty audio response"))
	}
	return audio, nil
}
