package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ArtifactFetcher downloads a model artifact into dst.
type ArtifactFetcher interface {
	Fetch(ctx context.Context, artifactURL string, dst io.Writer) (int64, error)
}

// HTTPArtifactFetcher implements ArtifactFetcher over plain HTTP(S)
type HTTPArtifactFetcher struct {
	client *http.Client
}

// NewHTTPArtifactFetcher creates a fetcher sized for a few large downloads
func NewHTTPArtifactFetcher() ArtifactFetcher {
	transport := &http.Transport{
		MaxIdleConns:        4,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 16 << 10,
	}

	return &HTTPArtifactFetcher{
		client: &http.Client{
			Transport: transport,
			// Model files are tens of MB; the caller's context bounds the body read.
			Timeout: 0,

			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (limit: 5)")
				}
				return nil
			},
		},
	}
}

// Fetch makes a single GET and streams the body into dst. Non-200 answers are errors.
func (h *HTTPArtifactFetcher) Fetch(ctx context.Context, artifactURL string, dst io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifactURL, nil)
	if err != nil {
		return 0, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "application/octet-stream, */*")
	req.Header.Set("User-Agent", "Go-Pose-Estimator/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch artifact: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return 0, fmt.Errorf("client error: status code %d", resp.StatusCode)
	case resp.StatusCode >= 500:
		return 0, fmt.Errorf("server error: status code %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return 0, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	n, err := io.Copy(dst, resp.Body)
	if err != nil {
		return n, fmt.Errorf("read artifact body: %w", err)
	}
	return n, nil
}
