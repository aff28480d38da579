package collect

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// userAgents is the pool rotated across requests.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) Version/17.1 Safari/605.1.15",
}

// Fetcher performs polite HTTP fetches for sources: throttled, with a rotated
// user agent and capped exponential backoff when the site rate-limits us.
type Fetcher struct {
	http       *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
	maxRetries int

	requests  int
	successes int
	failures  int
}

// NewFetcher creates a fetcher issuing at most rps requests per second.
func NewFetcher(rps float64, maxRetries int, log *zap.Logger) *Fetcher {
	if rps <= 0 {
		rps = 1
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &Fetcher{
		http:       &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     log,
		maxRetries: maxRetries,
	}
}

// Get fetches a URL and returns the response body.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		f.requests++

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])

		resp, err := f.http.Do(req)
		if err != nil {
			f.failures++
			return nil, fmt.Errorf("fetch failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			f.failures++
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			if attempt >= f.maxRetries {
				f.failures++
				return nil, fmt.Errorf("rate limited by %s after %d retries", url, attempt)
			}
			wait := time.Duration(1<<(attempt+1)) * time.Second
			f.logger.Warn("Source rate limited, backing off",
				zap.String("url", url),
				zap.Duration("wait", wait))
			select {
			case <-time.After(wait):
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if resp.StatusCode != http.StatusOK {
			f.failures++
			return nil, fmt.Errorf("fetch of %s returned status %d", url, resp.StatusCode)
		}

		f.successes++
		return body, nil
	}
}

// Stats returns the request, success and failure counters.
func (f *Fetcher) Stats() (requests, successes, failures int) {
	return f.requests, f.successes, f.failures
}
