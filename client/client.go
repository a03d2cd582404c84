// Package client provides a Go client for the gate's web API, plus an
// in-memory fake for testing consumers without a server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when the server reports 404 for a run.
var ErrNotFound = errors.New("run not found")

// RunSummary mirrors the API's list representation of a run.
type RunSummary struct {
	ID             string     `json:"id"`
	Workflow       string     `json:"workflow,omitempty"`
	JobID          string     `json:"job_id,omitempty"`
	Trigger        string     `json:"trigger"`
	CommitRef      string     `json:"commit_ref,omitempty"`
	State          string     `json:"state"`
	FailureSummary string     `json:"failure_summary,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	DurationMillis int64      `json:"duration_millis,omitempty"`
}

// Terminal reports whether the run has finished.
func (r *RunSummary) Terminal() bool {
	switch r.State {
	case "PASSED", "FAILED", "ERRORED", "CANCELED":
		return true
	default:
		return false
	}
}

// RunDetail is a run with its step results.
type RunDetail struct {
	RunSummary
	Steps []StepResult `json:"steps"`
}

// StepResult is one step of a run.
type StepResult struct {
	Index          int        `json:"index"`
	Name           string     `json:"name"`
	Command        string     `json:"command"`
	State          string     `json:"state"`
	ExitCode       int        `json:"exit_code"`
	Output         string     `json:"output,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	DurationMillis int64      `json:"duration_millis,omitempty"`
}

// EnqueueRunRequest is the body for manual run creation.
type EnqueueRunRequest struct {
	Workflow  string `json:"workflow,omitempty"`
	JobID     string `json:"job_id,omitempty"`
	Trigger   string `json:"trigger,omitempty"`
	CommitRef string `json:"commit_ref,omitempty"`
}

// ListRunsOptions filters run listings.
type ListRunsOptions struct {
	States []string
	Limit  int
	Offset int
}

// API is the surface the gate's web API exposes.
type API interface {
	Health(ctx context.Context) error
	ListRuns(ctx context.Context, opts ListRunsOptions) ([]RunSummary, error)
	GetRun(ctx context.Context, id string) (*RunDetail, error)
	EnqueueRun(ctx context.Context, req EnqueueRunRequest) (*RunSummary, error)
	PushEvent(ctx context.Context, ref, commitSHA string) (*RunSummary, error)
	CancelRun(ctx context.Context, id string) (*RunSummary, error)
}

// Client talks to a gate server over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the server at baseURL, e.g.
// "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health checks the server and its storage.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

// ListRuns lists runs, newest first.
func (c *Client) ListRuns(ctx context.Context, opts ListRunsOptions) ([]RunSummary, error) {
	query := url.Values{}
	if len(opts.States) > 0 {
		query.Set("state", strings.Join(opts.States, ","))
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}

	path := "/api/runs"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var resp struct {
		Runs []RunSummary `json:"runs"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Runs, nil
}

// GetRun fetches a run with its steps.
func (c *Client) GetRun(ctx context.Context, id string) (*RunDetail, error) {
	var run RunDetail
	if err := c.do(ctx, http.MethodGet, "/api/runs/"+url.PathEscape(id), nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// EnqueueRun queues a manual run.
func (c *Client) EnqueueRun(ctx context.Context, req EnqueueRunRequest) (*RunSummary, error) {
	var run RunSummary
	if err := c.do(ctx, http.MethodPost, "/api/runs", req, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// PushEvent delivers a push event, queueing a run for the commit.
func (c *Client) PushEvent(ctx context.Context, ref, commitSHA string) (*RunSummary, error) {
	body := map[string]any{
		"ref":         ref,
		"head_commit": map[string]string{"id": commitSHA},
	}
	var run RunSummary
	if err := c.do(ctx, http.MethodPost, "/api/events/push", body, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// CancelRun dequeues a run that has not started.
func (c *Client) CancelRun(ctx context.Context, id string) (*RunSummary, error) {
	var run RunSummary
	path := "/api/runs/" + url.PathEscape(id) + "/cancel"
	if err := c.do(ctx, http.MethodPost, path, nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// WaitForRun polls until the run reaches a terminal state or the
// context expires.
func (c *Client) WaitForRun(ctx context.Context, id string, pollInterval time.Duration) (*RunDetail, error) {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		run, err := c.GetRun(ctx, id)
		if err != nil {
			return nil, err
		}
		if run.Terminal() {
			return run, nil
		}

		select {
		case <-ctx.Done():
			return run, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	msg := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		msg = body.Error
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)
}
