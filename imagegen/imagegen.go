// Package imagegen holds the clients for generative visuals: still images per
// sub-cut and, optionally, whole video clips. Both are black boxes reached
// over a queue-style HTTP API (submit, poll, download).
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"aigongjang/config"
	"aigongjang/types"
)

// Client generates one still image per prompt. The optional anchor image is
// passed with every call to keep the recurring character visually consistent
// across scenes.
type Client interface {
	Generate(ctx context.Context, prompt string, anchor []byte) ([]byte, error)
}

// VideoClient generates a short video clip for a prompt. A nil VideoClient in
// the assembler means the generative-video strategy is not configured and is
// skipped.
type VideoClient interface {
	GenerateVideo(ctx context.Context, prompt string, targetDur float64) ([]byte, error)
}

// QueueClient implements both Client and VideoClient against a fal.ai-style
// queue API: submit the job, poll until done, download the artifact URL.
type QueueClient struct {
	baseURL    string
	apiKey     string
	imageModel string
	videoModel string
	seed       int
	client     *http.Client
	pollEvery  time.Duration
}

// NewQueueClient reads IMAGEGEN_URL, IMAGEGEN_API_KEY and optional model
// overrides from the environment.
func NewQueueClient() (*QueueClient, error) {
	baseURL := os.Getenv("IMAGEGEN_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("IMAGEGEN_URL environment variable not set")
	}
	return &QueueClient{
		baseURL:    baseURL,
		apiKey:     os.Getenv("IMAGEGEN_API_KEY"),
		imageModel: config.GetEnvOrDefault("IMAGEGEN_IMAGE_MODEL", "flux/dev"),
		videoModel: os.Getenv("IMAGEGEN_VIDEO_MODEL"),
		seed:       envSeed(),
		client:     &http.Client{Timeout: config.GenerationTimeout},
		pollEvery:  2 * time.Second,
	}, nil
}

// envSeed reads IMAGEGEN_SEED; zero means the provider picks its own noise.
func envSeed() int {
	if v := os.Getenv("IMAGEGEN_SEED"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

// HasVideoModel reports whether a generative-video model is configured.
func (c *QueueClient) HasVideoModel() bool { return c.videoModel != "" }

type submitRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	ImageSize   string  `json:"image_size,omitempty"`
	AnchorImage string  `json:"reference_image_b64,omitempty"`
	DurationSec float64 `json:"duration_seconds,omitempty"`
	// Seed pins the generator's noise so a recurring character stays
	// consistent across scenes.
	Seed int `json:"seed,omitempty"`
}

type jobStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	URL    string `json:"result_url,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Generate submits an image job and downloads the result.
func (c *QueueClient) Generate(ctx context.Context, prompt string, anchor []byte) ([]byte, error) {
	req := submitRequest{
		Model:     c.imageModel,
		Prompt:    prompt,
		ImageSize: "landscape_16_9",
		Seed:      c.seed,
	}
	if len(anchor) > 0 {
		req.AnchorImage = base64.StdEncoding.EncodeToString(anchor)
	}
	data, err := c.run(ctx, req)
	if err != nil {
		return nil, types.UpstreamGenerationError("image", err)
	}
	return data, nil
}

// GenerateVideo submits a video job for roughly the target duration. The
// assembler trims or loops the result to the exact narration length.
func (c *QueueClient) GenerateVideo(ctx context.Context, prompt string, targetDur float64) ([]byte, error) {
	if c.videoModel == "" {
		return nil, types.UpstreamGenerationError("video", fmt.Errorf("no video model configured"))
	}
	data, err := c.run(ctx, submitRequest{
		Model:       c.videoModel,
		Prompt:      prompt,
		DurationSec: targetDur,
	})
	if err != nil {
		return nil, types.UpstreamGenerationError("video", err)
	}
	return data, nil
}

// run drives the submit → poll → download cycle under the caller's deadline.
func (c *QueueClient) run(ctx context.Context, req submitRequest) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, config.GenerationTimeout)
	defer cancel()

	job, err := c.submit(ctx, req)
	if err != nil {
		return nil, err
	}

	for {
		switch job.Status {
		case "completed":
			return c.download(ctx, job.URL)
		case "failed":
			return nil, fmt.Errorf("job %s failed: %s", job.ID, job.Error)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollEvery):
		}

		job, err = c.poll(ctx, job.ID)
		if err != nil {
			return nil, err
		}
	}
}

func (c *QueueClient) submit(ctx context.Context, req submitRequest) (*jobStatus, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	return c.jobRequest(ctx, http.MethodPost, c.baseURL+"/v1/jobs", bytes.NewReader(body))
}

func (c *QueueClient) poll(ctx context.Context, id string) (*jobStatus, error) {
	return c.jobRequest(ctx, http.MethodGet, c.baseURL+"/v1/jobs/"+id, nil)
}

func (c *QueueClient) jobRequest(ctx context.Context, method, url string, body io.Reader) (*jobStatus, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Key "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var job jobStatus
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *QueueClient) download(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("completed job has no result url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
