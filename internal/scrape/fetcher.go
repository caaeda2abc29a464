package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const userAgent = "Mozilla/5.0 (compatible; retirement-checker/1.0)"

// Fetcher retrieves documentation pages over HTTP.
type Fetcher struct {
	client *http.Client
}

// NewFetcher wires an HTTP client; a 20s-timeout default is used when nil.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Fetcher{client: client}
}

// Fetch downloads the page at pageURL and returns its body as text.
// Non-2xx responses are errors: a missing source must be visible to the
// caller, not silently treated as "no retirements".
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("document server returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read document body: %w", err)
	}

	return string(body), nil
}
