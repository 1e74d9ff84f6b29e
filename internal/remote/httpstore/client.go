// Package httpstore implements remote.Store against the task service's
// HTTP API. Transport failures, timeouts, and server errors all surface as
// remote.ErrUnavailable so the coordinator can fall back to the queue.
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/colonyops/skiff/internal/core/remote"
	"github.com/colonyops/skiff/internal/core/task"
)

const defaultTimeout = 10 * time.Second

// Config holds the connection settings for the task service.
type Config struct {
	BaseURL string
	Token   string
	UserID  string
	Timeout time.Duration
	Logger  zerolog.Logger

	// HTTPClient overrides the oauth2 client. Used by tests.
	HTTPClient *http.Client
}

// Client talks to the task service for a single authenticated user.
type Client struct {
	baseURL *url.URL
	userID  string
	token   string
	timeout time.Duration
	http    *http.Client
	logger  zerolog.Logger
}

var _ remote.Store = (*Client)(nil)

// New creates a task service client.
func New(cfg Config) (*Client, error) {
	if cfg.UserID == "" {
		return nil, fmt.Errorf("httpstore: user id is required")
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("httpstore: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("httpstore: base url scheme must be http or https, got %q", base.Scheme)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		if cfg.Token != "" {
			src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
			httpClient = oauth2.NewClient(context.Background(), src)
		} else {
			httpClient = &http.Client{}
		}
	}

	return &Client{
		baseURL: base,
		userID:  cfg.UserID,
		token:   cfg.Token,
		timeout: timeout,
		http:    httpClient,
		logger:  cfg.Logger,
	}, nil
}

// Create stores a new task and returns it with the server-assigned id.
func (c *Client) Create(ctx context.Context, t task.Task) (task.Task, error) {
	var created task.Task
	err := c.do(ctx, http.MethodPost, c.tasksPath(""), t, &created)
	if err != nil {
		return task.Task{}, err
	}
	return created, nil
}

// Update applies a partial update and returns the resulting task.
func (c *Client) Update(ctx context.Context, id string, p task.Patch) (task.Task, error) {
	var updated task.Task
	err := c.do(ctx, http.MethodPatch, c.tasksPath(id), p, &updated)
	if err != nil {
		return task.Task{}, err
	}
	return updated, nil
}

// Delete removes a task.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.tasksPath(id), nil, nil)
}

// List returns the user's full task list in server order.
func (c *Client) List(ctx context.Context) ([]task.Task, error) {
	var tasks []task.Task
	if err := c.do(ctx, http.MethodGet, c.tasksPath(""), nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

// Ping verifies the service is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/v1/ping", nil, nil)
}

func (c *Client) tasksPath(id string) string {
	p := fmt.Sprintf("/v1/users/%s/tasks", url.PathEscape(c.userID))
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

// do performs one request with the client's timeout and decodes the
// response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("httpstore: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	u := c.baseURL.JoinPath(path).String()
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("httpstore: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Str("path", path).Msg("remote request failed")
		return fmt.Errorf("%s %s: %v: %w", method, path, err, remote.ErrUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp, method, path); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("httpstore: decode response: %w", err)
		}
	}
	return nil
}

func checkStatus(resp *http.Response, method, path string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, remote.ErrNotFound)
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, remote.ErrUnavailable)
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
}
