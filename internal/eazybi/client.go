package eazybi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Client is the interface for fetching eazyBI report data.
type Client interface {
	FetchReport(ctx context.Context, url string) ([]Issue, error)
}

type httpFetcher struct {
	httpClient *http.Client
}

// NewClient creates a report client with the given request timeout.
func NewClient(timeout time.Duration) Client {
	if timeout == 0 {
		timeout = 90 * time.Second
	}
	return &httpFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchReport downloads the CSV export at url and parses it into issues.
func (c *httpFetcher) FetchReport(ctx context.Context, url string) ([]Issue, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching report: unexpected status %d", resp.StatusCode)
	}

	issues, err := ParseReport(resp.Body)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("issues", len(issues)).
		Dur("elapsed", time.Since(start)).
		Msg("Fetched eazyBI report")

	return issues, nil
}
