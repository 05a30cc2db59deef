// Package portfolio is the Go client for the portfolio backend. It mirrors
// the behavior of the site's contact form: fields are validated locally
// before any network call, only one submission can be in flight at a time,
// and a connectivity failure is reported distinctly from a server error.
package portfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// Config holds the configuration for the portfolio client.
type Config struct {
	// BaseURL is the root URL of the backend.
	// Example: "https://api.example.com"
	// The "/v1" suffix is appended automatically if missing.
	BaseURL string

	// HTTPClient is an optional custom HTTP client.
	// If nil, a default client with 15s timeout is used.
	HTTPClient *http.Client
}

func (c *Config) defaults() {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if !strings.HasSuffix(c.BaseURL, "/v1") {
		c.BaseURL = c.BaseURL + "/v1"
	}
}

// Client submits contact messages to the portfolio backend.
// Safe for concurrent use; concurrent Submit calls beyond the first return
// ErrSubmissionInFlight rather than double-sending.
type Client struct {
	cfg      Config
	inFlight atomic.Bool
}

// NewClient creates a new portfolio client with the given configuration.
func NewClient(cfg Config) *Client {
	cfg.defaults()
	return &Client{cfg: cfg}
}

// Submit validates and sends one contact form submission.
//
// Local validation mirrors the server's rules for fast feedback, but the
// server re-validates everything; a *ValidationError returned from here or
// an *APIError with a Field set should be rendered next to that field.
func (c *Client) Submit(ctx context.Context, sub Submission) (*SubmissionResult, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	// One submission at a time: a second call while one is pending is the
	// double-click case and must be a no-op.
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer c.inFlight.Store(false)

	body, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("portfolio: encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/contact", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("portfolio: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		// The request never produced a server response: connectivity, DNS,
		// timeout. Distinct from anything the server said.
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseAPIError(resp.StatusCode, respBody)
	}

	var envelope struct {
		Message string           `json:"message"`
		Data    SubmissionResult `json:"data"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("portfolio: decode response: %w", err)
	}

	result := envelope.Data
	result.Message = envelope.Message
	return &result, nil
}

// RecordVisit counts one site visit and returns the running total.
func (c *Client) RecordVisit(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/visitors", nil)
	if err != nil {
		return 0, fmt.Errorf("portfolio: build request: %w", err)
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return 0, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, &NetworkError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return 0, parseAPIError(resp.StatusCode, respBody)
	}

	var envelope struct {
		Data struct {
			Count int64 `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return 0, fmt.Errorf("portfolio: decode response: %w", err)
	}

	return envelope.Data.Count, nil
}
