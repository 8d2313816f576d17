// Package backend is the HTTP client for the cinema REST backend, the
// single owner of all persistent state (halls, seats, shows, movies).  The
// back-office holds nothing durable itself; every read and write in this
// package is one of the collaborator calls the gateway is allowed to make.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 1200 * time.Millisecond
	maxErrorBodyBytes  = 4 << 10
)

// Client wraps HTTP access to the backend API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxAttempts int
	retryBase   time.Duration
	retryCap    time.Duration
}

// APIError is returned when the backend responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "backend api error"
	}
	return fmt.Sprintf("backend api error: %s: %s", e.Status, e.Body)
}

// IsNotFound reports whether the error represents a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// NewClient creates a backend client for baseURL.  If httpClient is nil a
// default client with a request timeout is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxAttempts: defaultMaxAttempts,
		retryBase:   defaultRetryBase,
		retryCap:    defaultRetryCap,
	}
}

// ListSeats fetches the full seat table.  The backend exposes no per-hall
// filter on this endpoint; callers filter client-side.
func (c *Client) ListSeats(ctx context.Context) ([]Seat, error) {
	var seats []Seat
	if err := c.getJSON(ctx, c.baseURL+"/seats", &seats); err != nil {
		return nil, err
	}
	return seats, nil
}

// ListSeatsByHall returns the seats of one hall, filtered from the full
// seat list.
func (c *Client) ListSeatsByHall(ctx context.Context, hallID uint64) ([]Seat, error) {
	all, err := c.ListSeats(ctx)
	if err != nil {
		return nil, err
	}
	seats := make([]Seat, 0, len(all))
	for _, s := range all {
		if s.HallID == hallID {
			seats = append(seats, s)
		}
	}
	return seats, nil
}

// ListShowsByHall fetches every show scheduled in the given hall.
func (c *Client) ListShowsByHall(ctx context.Context, hallID uint64) ([]Show, error) {
	var shows []Show
	endpoint := fmt.Sprintf("%s/shows/hall/%d", c.baseURL, hallID)
	if err := c.getJSON(ctx, endpoint, &shows); err != nil {
		return nil, err
	}
	return shows, nil
}

// GetMovie fetches a movie by id; Duration is in minutes.
func (c *Client) GetMovie(ctx context.Context, movieID uint64) (*Movie, error) {
	var m Movie
	endpoint := fmt.Sprintf("%s/movies/%d", c.baseURL, movieID)
	if err := c.getJSON(ctx, endpoint, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SyncSeats replaces a hall's entire seat list with the given records.
// The backend applies last-write-wins full-replace semantics.
func (c *Client) SyncSeats(ctx context.Context, hallID uint64, seats []Seat) error {
	endpoint := fmt.Sprintf("%s/seats/halls/%d/sync", c.baseURL, hallID)
	return c.sendJSON(ctx, http.MethodPost, endpoint, seats)
}

// UpdateShow commits a show's new schedule.
func (c *Client) UpdateShow(ctx context.Context, showID uint64, upd ShowUpdate) error {
	endpoint := fmt.Sprintf("%s/shows/%d", c.baseURL, showID)
	return c.sendJSON(ctx, http.MethodPut, endpoint, upd)
}

// UpdateHall commits a hall's seating dimensions and capacity.
func (c *Client) UpdateHall(ctx context.Context, hallID uint64, upd HallUpdate) error {
	endpoint := fmt.Sprintf("%s/halls/%d", c.baseURL, hallID)
	return c.sendJSON(ctx, http.MethodPut, endpoint, upd)
}

// getJSON performs a GET and decodes the response body into out.  Transient
// failures (network errors, 5xx, 429) are retried with capped exponential
// backoff; other non-2xx statuses fail immediately with an *APIError.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepCtx(ctx, c.backoff(attempt-1)); err != nil {
				return err
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("get %s: %w", endpoint, err)
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("read %s: %w", endpoint, readErr)
			continue
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if out == nil {
				return nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("decode %s: %w", endpoint, err)
			}
			return nil
		}
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Endpoint:   endpoint,
			Body:       trimBody(body),
		}
		if !retryable(resp.StatusCode) {
			return apiErr
		}
		lastErr = apiErr
	}
	return lastErr
}

// sendJSON performs a single-attempt write.  Writes are never retried here:
// the seat sync and show update endpoints carry no concurrency token, so a
// blind replay could clobber a concurrent operator's submit.
func (c *Client) sendJSON(ctx context.Context, method, endpoint string, in any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", endpoint, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", strings.ToLower(method), endpoint, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Endpoint:   endpoint,
		Body:       trimBody(body),
	}
}

func (c *Client) backoff(n int) time.Duration {
	d := c.retryBase << (n - 1)
	if d > c.retryCap {
		d = c.retryCap
	}
	if d <= 0 {
		d = c.retryBase
	}
	return d
}

func retryable(status int) bool {
	return status >= 500 || status == http.StatusTooManyRequests
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func trimBody(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBodyBytes {
		s = s[:maxErrorBodyBytes]
	}
	return s
}
