package crawl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avolkov/contactsift/internal/cache"
	"github.com/avolkov/contactsift/internal/model"
	"github.com/avolkov/contactsift/internal/util"
	"github.com/avolkov/contactsift/internal/worker"
)

// FetchResult is the explicit outcome of one GET. Failure is a value, not an
// error: callers observe "no content" through OK() and move on, so the
// treat-as-empty policy is a visible branch instead of a swallowed exception.
type FetchResult struct {
	URL        string
	StatusCode int
	Body       string
	Reason     string
}

// OK reports whether the fetch produced usable content
func (r FetchResult) OK() bool {
	return r.Reason == "" && r.StatusCode == http.StatusOK
}

// Fetcher performs bounded-concurrency HTTP GETs. The shared transport caps
// simultaneous connections per destination host; requests beyond the cap
// queue inside the transport rather than fail.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *worker.Limiter
	pages      cache.Cache
	pageTTL    time.Duration
}

// NewFetcher creates a fetcher from the HTTP section of the configuration.
// limiter and pages may be nil to disable rate limiting and caching.
func NewFetcher(cfg model.HTTPConfig, limiter *worker.Limiter, pages cache.Cache, pageTTL time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:           util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
				MaxConnsPerHost: cfg.MaxConnsPerHost,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		limiter:   limiter,
		pages:     pages,
		pageTTL:   pageTTL,
	}
}

// Fetch retrieves the page at rawURL. Timeouts, network errors and non-200
// statuses all come back as a non-OK FetchResult; no retries.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) FetchResult {
	result := FetchResult{URL: rawURL}

	if f.pages != nil {
		if body, found := f.pages.Get(cache.PageKey(rawURL)); found {
			result.StatusCode = http.StatusOK
			result.Body = string(body)
			return result
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			result.Reason = fmt.Sprintf("rate limit: %v", err)
			return result
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		result.Reason = fmt.Sprintf("create request: %v", err)
		return result
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		result.Reason = fmt.Sprintf("fetch: %v", err)
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		result.Reason = fmt.Sprintf("unexpected status: %d %s", resp.StatusCode, resp.Status)
		return result
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		result.Reason = fmt.Sprintf("read body: %v", err)
		return result
	}

	result.Body = string(body)

	if f.pages != nil {
		_ = f.pages.Set(cache.PageKey(rawURL), body, f.pageTTL)
	}

	return result
}
