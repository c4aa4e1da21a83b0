// Package stock searches a stock-footage provider for a query and downloads
// the best match. "No match" is a normal outcome that makes the assembler
// fall through to the next visual strategy.
package stock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"aigongjang/config"
	"aigongjang/types"
)

// ErrNoMatch signals that the provider has no footage for the query.
var ErrNoMatch = errors.New("no stock footage match")

// Client searches for stock footage.
type Client interface {
	Search(ctx context.Context, query string) ([]byte, error)
}

// RESTClient talks to a Pexels-style video search API.
type RESTClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewRESTClient reads STOCK_URL and STOCK_API_KEY from the environment.
func NewRESTClient() (*RESTClient, error) {
	baseURL := os.Getenv("STOCK_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("STOCK_URL environment variable not set")
	}
	return &RESTClient{
		baseURL: baseURL,
		apiKey:  os.Getenv("STOCK_API_KEY"),
		client:  &http.Client{Timeout: config.GenerationTimeout},
	}, nil
}

type searchResponse struct {
	Videos []struct {
		Files []struct {
			Link   string `json:"link"`
			Height int    `json:"height"`
		} `json:"video_files"`
	} `json:"videos"`
}

// Search returns the bytes of the first match whose height is closest to the
// output resolution, or ErrNoMatch.
func (c *RESTClient) Search(ctx context.Context, query string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/videos/search?per_page=1&query="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, types.UpstreamGenerationError("stock", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, types.UpstreamGenerationError("stock", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, types.UpstreamGenerationError("stock", fmt.Errorf("status %d", resp.StatusCode))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, types.UpstreamGenerationError("stock", err)
	}

	link := bestLink(sr)
	if link == "" {
		return nil, ErrNoMatch
	}
	return c.download(ctx, link)
}

// bestLink picks the file whose height is nearest the output height.
func bestLink(sr searchResponse) string {
	best := ""
	bestDelta := 1 << 30
	for _, v := range sr.Videos {
		for _, f := range v.Files {
			delta := f.Height - config.VideoHeight
			if delta < 0 {
				delta = -delta
			}
			if f.Link != "" && delta < bestDelta {
				best, bestDelta = f.Link, delta
			}
		}
	}
	return best
}

func (c *RESTClient) download(ctx context.Context, link string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, types.UpstreamGenerationError("stock", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, types.UpstreamGenerationError("stock", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, types.UpstreamGenerationError("stock", fmt.Errorf("download status %d", resp.StatusCode))
	}
	return io.ReadAll(resp.Body)
}
