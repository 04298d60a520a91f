// Package fetcher retrieves raw page content over HTTP with config-driven
// retry logic.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"tpowatch/internal/config"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Responses larger than this are truncated; a blog index page is a few
// hundred KB at most.
const maxBodyBytes = 4 << 20

// Fetcher performs GET requests with retry and exponential backoff.
type Fetcher struct {
	client      *http.Client
	retryPolicy *config.RetryPolicy
	userAgent   string
}

// NewFetcher creates a fetcher with default retry policy.
func NewFetcher() *Fetcher {
	return NewFetcherWithPolicy(&config.RetryPolicy{
		MaxAttempts:       3,
		InitialDelayMs:    500,
		MaxDelayMs:        30000,
		BackoffMultiplier: 2.0,
		TimeoutSec:        30,
	})
}

// NewFetcherWithPolicy creates a fetcher with a custom retry policy.
func NewFetcherWithPolicy(retryPolicy *config.RetryPolicy) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: retryPolicy.GetTimeout(),
		},
		retryPolicy: retryPolicy,
		userAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	}
}

// FetchWithMetrics returns (content, statusCode, totalDuration, error).
func (f *Fetcher) FetchWithMetrics(ctx context.Context, url string) (string, int, time.Duration, error) {
	var lastErr error

	var lastStatusCode int

	totalDuration := time.Duration(0)

	for attempt := 1; attempt <= f.retryPolicy.MaxAttempts; attempt++ {
		startTime := time.Now()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return "", 0, totalDuration, fmt.Errorf("failed to create request: %w", err)
		}

		// Set user agent to avoid being blocked
		req.Header.Set("User-Agent", f.userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

		resp, err := f.client.Do(req)
		duration := time.Since(startTime)
		totalDuration += duration

		if err != nil {
			lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", attempt, f.retryPolicy.MaxAttempts, err)

			if ctx.Err() != nil {
				return "", 0, totalDuration, lastErr
			}

			f.backoff(attempt)

			continue
		}

		lastStatusCode = resp.StatusCode

		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)

			// Only retry on temporary failures
			if !isRetryableStatus(resp.StatusCode) {
				return "", lastStatusCode, totalDuration, lastErr
			}

			f.backoff(attempt)

			continue
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		closeErr := resp.Body.Close()

		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)

			continue
		}

		if closeErr != nil {
			lastErr = fmt.Errorf("failed to close response body: %w", closeErr)

			continue
		}

		return string(body), resp.StatusCode, totalDuration, nil
	}

	return "", lastStatusCode, totalDuration, lastErr
}

// Fetch fetches and returns content from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	content, _, _, err := f.FetchWithMetrics(ctx, url)

	return content, err
}

func (f *Fetcher) backoff(attempt int) {
	if attempt >= f.retryPolicy.MaxAttempts {
		return
	}

	if delay := f.retryPolicy.GetRetryDelay(attempt); delay > 0 {
		time.Sleep(delay)
	}
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable: // 503
		return true
	case http.StatusGatewayTimeout: // 504
		return true
	case http.StatusTooManyRequests: // 429
		return true
	case http.StatusRequestTimeout: // 408
		return true
	}

	return false
}
