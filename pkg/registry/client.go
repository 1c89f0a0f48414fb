package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/depsweep/depsweep/pkg/cache"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a package does not exist in the registry.
	ErrNotFound = errors.New("package not found")

	// ErrFetch is returned for registry failures other than a missing
	// package: non-2xx responses, connection errors, timeouts.
	ErrFetch = errors.New("registry fetch failed")
)

// Client provides the HTTP plumbing shared by the registry adapters:
// response caching, retry with backoff, and status code mapping.
type Client struct {
	http  *http.Client
	cache cache.Cache
	ttl   time.Duration
}

// NewClient creates a Client storing responses in c with the given TTL.
func NewClient(c cache.Cache, ttl time.Duration) *Client {
	return &Client{
		http:  &http.Client{Timeout: httpTimeout},
		cache: c,
		ttl:   ttl,
	}
}

// Cached retrieves the JSON value stored under key, or runs fetch (with
// retries) to populate v and stores the result. refresh bypasses the cache.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		if data, hit, _ := c.cache.Get(ctx, key); hit {
			if json.Unmarshal(data, v) == nil {
				return nil
			}
		}
	}
	if err := RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
	}
	return nil
}

// GetJSON performs a GET request and decodes the response body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &RetryableError{Err: fmt.Errorf("%w: %v", ErrFetch, err)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrFetch, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrFetch, code)
	}
}
