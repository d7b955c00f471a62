// Package client talks to a running habitual daemon over its HTTP API.
package client

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

	"github.com/theirongolddev/habitual/internal/daemon"
	"github.com/theirongolddev/habitual/internal/model"
)

const (
	requestTimeout = 5 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "habitual-cli/1.0"
)

var (
	// ErrBadRequest indicates the daemon rejected the input (HTTP 400).
	ErrBadRequest = errors.New("client: bad request")
	// ErrNotFound indicates the habit index does not exist (HTTP 404).
	ErrNotFound = errors.New("client: not found")
)

// Client calls the daemon API at a fixed address.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for addr, given as host:port or a full URL.
// Returns nil if addr is empty.
func New(addr string) *Client {
	addr = strings.TrimRight(strings.TrimSpace(addr), "/")
	if addr == "" {
		return nil
	}
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return &Client{
		baseURL: addr,
		http:    &http.Client{},
	}
}

// Health reports whether the daemon answers /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// Status returns the daemon's runtime status.
func (c *Client) Status(ctx context.Context) (*daemon.Status, error) {
	var st daemon.Status
	if err := c.do(ctx, http.MethodGet, "/v1/status", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Habits returns the daemon's collection in order.
func (c *Client) Habits(ctx context.Context) ([]model.Habit, error) {
	var wire []daemon.Habit
	if err := c.do(ctx, http.MethodGet, "/v1/habits", nil, &wire); err != nil {
		return nil, err
	}
	out := make([]model.Habit, len(wire))
	for i, h := range wire {
		out[i] = toModel(h)
	}
	return out, nil
}

// Add appends a habit and returns its position.
func (c *Client) Add(ctx context.Context, name, category string) (int, model.Habit, error) {
	body := map[string]string{"name": name, "category": category}
	var wire daemon.Habit
	if err := c.do(ctx, http.MethodPost, "/v1/habits", body, &wire); err != nil {
		return 0, model.Habit{}, err
	}
	return wire.Index, toModel(wire), nil
}

// Delete removes the habit at index.
func (c *Client) Delete(ctx context.Context, index int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/v1/habits/%d", index), nil, nil)
}

// SetCompletion marks or clears the habit at index on date.
func (c *Client) SetCompletion(ctx context.Context, index int, date time.Time, completed bool) (model.Habit, error) {
	method := http.MethodDelete
	if completed {
		method = http.MethodPut
	}
	path := fmt.Sprintf("/v1/habits/%d/completions/%s", index, model.DateKey(date))

	var wire daemon.Habit
	if err := c.do(ctx, method, path, nil, &wire); err != nil {
		return model.Habit{}, err
	}
	return toModel(wire), nil
}

// do sends a request and decodes a JSON response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("client: reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, errorMessage(data))
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, errorMessage(data))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("client: unexpected status %d: %s", resp.StatusCode, errorMessage(data))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("client: parsing response: %w", err)
	}
	return nil
}

// errorMessage extracts the daemon's {"error": "..."} text, falling back to
// the raw body.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}

func toModel(h daemon.Habit) model.Habit {
	completions := make(model.Completions, len(h.Completions))
	for _, k := range h.Completions {
		completions[k] = true
	}
	return model.Habit{
		Name:        h.Name,
		Category:    h.Category,
		Streak:      h.Streak,
		Completions: completions,
	}
}
