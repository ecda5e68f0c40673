// Package remote is the HTTP client for the study backend. It implements the
// due-item provider and scheduler used by study sessions, and the counter
// and settings stores used by the focus timer.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/juanmoyano123/cards-study/internal/study"
	"github.com/juanmoyano123/cards-study/internal/timer"
)

// maxErrorBody bounds how much of an error response is kept in StatusError.
const maxErrorBody = 512

// Config holds remote client configuration.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8000".
	BaseURL string

	// Token is sent as a bearer token when non-empty.
	Token string

	// Timeout caps a single HTTP exchange. Callers bound whole operations
	// through their context.
	Timeout time.Duration

	Retry RetryConfig
}

// Client talks to the study backend.
type Client struct {
	base   *url.URL
	token  string
	http   *http.Client
	retry  RetryConfig
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a Client for cfg.BaseURL.
func New(cfg Config, logger *slog.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", base.Scheme)
	}
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retryCfg := cfg.Retry
	if retryCfg.MaxAttempts <= 0 {
		retryCfg = DefaultRetryConfig()
	}

	c := &Client{
		base:   base,
		token:  cfg.Token,
		http:   &http.Client{Timeout: timeout},
		retry:  retryCfg,
		logger: logger.With("component", "remote"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchQueue returns the due queue. It implements study.DueItemProvider.
func (c *Client) FetchQueue(ctx context.Context, opts study.QueueOptions) (*study.QueueResponse, error) {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.IncludeNew != nil {
		q.Set("include_new", strconv.FormatBool(*opts.IncludeNew))
	}
	if opts.NewLimit > 0 {
		q.Set("new_cards_limit", strconv.Itoa(opts.NewLimit))
	}

	var resp QueueResponse
	if err := c.get(ctx, "/study/queue", q, &resp); err != nil {
		return nil, err
	}
	return resp.toStudy(), nil
}

// SubmitReview records one rating. It implements study.Scheduler. It is
// never retried.
func (c *Client) SubmitReview(ctx context.Context, req study.ReviewRequest) (*study.ReviewResult, error) {
	body := ReviewRequest{
		CardID:           req.ItemID,
		Rating:           int(req.Rating),
		TimeSpentSeconds: req.TimeSpentSeconds,
	}
	var resp ReviewResponse
	if err := c.send(ctx, http.MethodPost, "/study/review", body, &resp); err != nil {
		return nil, err
	}
	return resp.toStudy(), nil
}

// RecordCycleComplete reports a finished work phase and returns the
// server's count for today.
func (c *Client) RecordCycleComplete(ctx context.Context) (int, error) {
	var resp CycleCompleteResponse
	if err := c.send(ctx, http.MethodPost, "/study/pomodoro/complete", nil, &resp); err != nil {
		return 0, err
	}
	return resp.PomodoroCount, nil
}

// GetToday returns today's focus statistics.
func (c *Client) GetToday(ctx context.Context) (*DayStats, error) {
	var resp DayStats
	if err := c.get(ctx, "/study/pomodoro/today", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History returns per-day focus statistics between from and to inclusive.
func (c *Client) History(ctx context.Context, from, to time.Time) ([]DayStats, error) {
	q := url.Values{}
	q.Set("start_date", from.Format(time.DateOnly))
	q.Set("end_date", to.Format(time.DateOnly))

	var resp []DayStats
	if err := c.get(ctx, "/study/pomodoro/history", q, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetSettings returns the settings stored remotely as a patch. Fields the
// server omits are nil.
func (c *Client) GetSettings(ctx context.Context) (timer.SettingsPatch, error) {
	var resp Settings
	if err := c.get(ctx, "/study/pomodoro/settings", nil, &resp); err != nil {
		return timer.SettingsPatch{}, err
	}
	return resp.Patch(), nil
}

// UpdateSettings sends only the fields set in patch. It is never retried.
func (c *Client) UpdateSettings(ctx context.Context, patch timer.SettingsPatch) error {
	return c.send(ctx, http.MethodPatch, "/study/pomodoro/settings", SettingsFromPatch(patch), nil)
}

// get performs an idempotent request with retries.
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	reqID := uuid.NewString()
	return retry(ctx, c.retry, func(attempt int) error {
		return c.do(ctx, http.MethodGet, path, q, nil, out, reqID, attempt)
	})
}

// send performs a single non-idempotent request.
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		payload = b
	}
	return c.do(ctx, method, path, nil, payload, out, uuid.NewString(), 0)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, payload []byte, out any, reqID string, attempt int) error {
	u := c.base.JoinPath(path)
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			"method", method, "path", path, "request_id", reqID,
			"attempt", attempt+1, "error", err)
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request",
		"method", method, "path", path, "status", resp.StatusCode,
		"request_id", reqID, "attempt", attempt+1,
		"latency_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			Path:       path,
			Code:       resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	return nil
}
