// Define an interface for all sources
// Ensure consistency

package scraper

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"jobscout/internal/models"
)

// Failure records one skipped company/page so operators can tell a dead
// endpoint from an over-strict filter. Written to failures.csv at run end.
type Failure struct {
	Company string
	URL     string
	Kind    string
	Stage   string
	Error   string
}

//Source defines the interface that all job sources must implement
type Source interface {
	//Scrape jobs from the source
	Scrape(ctx context.Context) ([]models.Job, error)

	//Name is the source name (RemoteOK, Remotive, ...)
	Name() string
}

const (
	requestTimeout  = 30 * time.Second
	maxRetries      = 3
	requestDelayMin = 1000 //ms
	requestDelayMax = 3000 //ms
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:127.0) Gecko/20100101 Firefox/127.0",
}

// Client is the shared HTTP client for API/RSS/HTML sources: per-request
// timeout, rotating user agent, retry with backoff on 429/5xx, and a random
// inter-request delay to stay under per-source rate limits.
type Client struct {
	http *http.Client
}

func NewClient() *Client {
	return &Client{
		http: &http.Client{Timeout: requestTimeout},
	}
}

// Get fetches url and returns the response body. Retries transient
// failures up to maxRetries times.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, retryable, err := c.get(ctx, url, headers)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, lastErr
}

func (c *Client) get(ctx context.Context, url string, headers map[string]string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}

	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("http GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("GET %s returned %d", url, resp.StatusCode)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}
	return body, false, nil
}

// Pause sleeps a random duration between requests to the same site.
func Pause() {
	delay := time.Duration(rand.Intn(requestDelayMax-requestDelayMin)+requestDelayMin) * time.Millisecond
	time.Sleep(delay)
}

// MatchesAny reports whether any keyword occurs in the haystack; with no
// keywords everything matches (filtering is the JobFilter's job).
func MatchesAny(haystack string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	lower := strings.ToLower(haystack)
	for _, k := range keywords {
		if k == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
