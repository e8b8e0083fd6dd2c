package fetch

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/factordynamics/paracas/internal/perror"
)

// ClientConfig tunes the pooled HTTP client shared across every task.
type ClientConfig struct {
	Concurrency int           // N: sizes the per-host idle connection pool
	ReadTimeout time.Duration // T_read, per-attempt deadline
	MaxRetries  int           // retryable attempts beyond the first
	BaseDelay   time.Duration // first retry delay; doubles each attempt
}

// DefaultClientConfig matches spec: N=8, T_read=30s, 3 retries (4 attempts
// total), backoff 1s/2s/4s.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Concurrency: 8,
		ReadTimeout: 30 * time.Second,
		MaxRetries:  3,
		BaseDelay:   1 * time.Second,
	}
}

// Result is the outcome of fetching one hour's blob.
type Result struct {
	Blob  []byte
	Empty bool // archive returned 404 or a zero-length 2xx
}

// Client is the pooled HTTP fetcher (component D). A single Client is
// shared across every task and instrument.
type Client struct {
	rc  *resty.Client
	cfg ClientConfig
}

// NewClient builds a Client with keep-alive enabled and the retry policy
// from cfg wired into resty's own retry machinery.
func NewClient(cfg ClientConfig) *Client {
	rc := resty.New().
		SetTimeout(cfg.ReadTimeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(cfg.BaseDelay).
		SetRetryMaxWaitTime(cfg.BaseDelay << cfg.MaxRetries).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true // connection reset, timeout, etc.
			}
			code := r.StatusCode()
			return code == http.StatusTooManyRequests || code >= 500
		})

	rc.SetRetryAfter(func(c *resty.Client, resp *resty.Response) (time.Duration, error) {
		if resp.StatusCode() != http.StatusTooManyRequests {
			return 0, nil
		}
		if ra := resp.Header().Get("Retry-After"); ra != "" {
			if secs, err := time.ParseDuration(ra + "s"); err == nil {
				return secs, nil
			}
		}
		return 0, nil
	})

	rc.GetClient().Transport = &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: cfg.Concurrency,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{rc: rc, cfg: cfg}
}

// Fetch retrieves the blob at url, mapping the archive's response codes to
// the error-kind vocabulary from the error handling design:
//
//   - 2xx with a non-empty body: Result{Blob: body}.
//   - 404, or a zero-length 2xx: Result{Empty: true}, no error.
//   - any other 4xx except 429 (e.g. 400/401/403/410): Error(Permanent).
//   - retries exhausted on a retryable status/transport error: Error(Transient).
func (c *Client) Fetch(ctxURL string) (Result, error) {
	resp, err := c.rc.R().Get(ctxURL)
	if err != nil {
		return Result{}, perror.Wrap(perror.Transient, "fetch", "request failed after retries", err)
	}

	switch resp.StatusCode() {
	case http.StatusNotFound:
		return Result{Empty: true}, nil
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusGone:
		return Result{}, perror.New(perror.Permanent, "fetch", fmt.Sprintf("non-retryable status %d for %s", resp.StatusCode(), ctxURL))
	}

	if code := resp.StatusCode(); code >= 400 && code < 500 && code != http.StatusTooManyRequests {
		return Result{}, perror.New(perror.Permanent, "fetch", fmt.Sprintf("non-retryable status %d for %s", code, ctxURL))
	}

	if resp.StatusCode() >= 300 {
		return Result{}, perror.New(perror.Transient, "fetch", fmt.Sprintf("status %d for %s after retries", resp.StatusCode(), ctxURL))
	}

	body := resp.Body()
	if len(body) == 0 {
		return Result{Empty: true}, nil
	}
	return Result{Blob: body}, nil
}
