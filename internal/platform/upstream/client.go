// Package upstream reads the external service catalog.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"homeservices/internal/catalog"

	"golang.org/x/time/rate"
)

const maxBodyBytes = 8 << 20

var (
	ErrStatus        = errors.New("unexpected upstream status")
	ErrNotConfigured = errors.New("upstream base url not configured")
)

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBackoff sets the first retry delay. Later retries double it.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

func NewClient(baseURL string, rps float64, maxRetries int, timeout time.Duration, opts ...Option) *Client {
	if rps <= 0 {
		rps = 1
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  "homeservices-sync/1.0",
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		maxRetries: maxRetries,
		backoff:    time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Record is one service as published upstream. Numbers may arrive as strings and
// features as a comma separated string.
type Record struct {
	ID       string              `json:"id"`
	LegacyID string              `json:"_id"`
	Title    string              `json:"title"`
	Category string              `json:"category"`
	Price    catalog.Amount      `json:"price"`
	Discount catalog.Amount      `json:"discount"`
	Unit     string              `json:"unit"`
	Features catalog.FeatureList `json:"features"`
}

// Key is the upstream identity of the record.
func (r Record) Key() string {
	if r.ID != "" {
		return r.ID
	}
	return r.LegacyID
}

// FetchServices returns the full upstream catalog snapshot.
func (c *Client) FetchServices(ctx context.Context) ([]Record, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}
	var records []Record
	if err := c.get(ctx, c.baseURL+"/services", &records); err != nil {
		return nil, fmt.Errorf("fetch services: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff << uint(attempt-1)
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retry, err := c.do(ctx, url, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, url string, target any) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return retryable(resp.StatusCode), fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(target); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return false, nil
}
