// Package rest implements the service.Service interface against the
// /api/todos REST backend.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"todo/internal/config"
	"todo/internal/service"
)

const (
	// TodosPath is the collection path appended to the base URL.
	TodosPath = "/api/todos"

	// APITimeout is the timeout for API calls when the config sets none.
	APITimeout = 10 * time.Second

	// RequestIDHeader carries a per-request UUID for backend log correlation.
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody bounds how much of an error response is kept for logging.
	maxErrorBody = 512
)

// Client implements service.Service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger // nil: slog.Default()

	// lists collapses concurrent ListTasks calls into one request.
	lists singleflight.Group
}

// New creates a client for the backend configured in cfg.
func New(cfg *config.Config, logger *slog.Logger) *Client {
	return NewWithHTTPClient(cfg.BaseURL, cfg.Timeout, &http.Client{}, logger)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
// A nil logger means slog.Default().
func NewWithHTTPClient(baseURL string, timeout time.Duration, httpClient *http.Client, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = APITimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		timeout:    timeout,
		logger:     logger,
	}
}

// ListTasks returns every task in backend order. Concurrent calls share one
// request; each caller still stops waiting when its own ctx is done.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ch := c.lists.DoChan("list", func() (interface{}, error) {
		// Other callers may be waiting on this request, so it must not end
		// with the first caller's ctx. do still applies the timeout.
		var tasks []service.Task
		if err := c.do(context.WithoutCancel(ctx), "list", http.MethodGet, TodosPath, nil, &tasks); err != nil {
			return nil, err
		}
		return tasks, nil
	})

	select {
	case <-ctx.Done():
		return nil, &service.TransportError{Op: "list", Err: wrapError(ctx.Err())}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.log().Debug("list request shared")
		}
		// Callers may mutate the slice; never hand out the shared backing array.
		tasks := res.Val.([]service.Task)
		out := make([]service.Task, len(tasks))
		copy(out, tasks)
		return out, nil
	}
}

// CreateTask creates a task; the backend assigns ID and completed=false.
func (c *Client) CreateTask(ctx context.Context, title string) (service.Task, error) {
	req := createRequest{Title: title}
	var task service.Task
	if err := c.do(ctx, "create", http.MethodPost, TodosPath, req, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// UpdateTask sends the full task to PUT /api/todos/{id}.
// The response body is ignored.
func (c *Client) UpdateTask(ctx context.Context, id int64, task service.Task) error {
	task.ID = id
	return c.do(ctx, "update", http.MethodPut, taskPath(id), task, nil)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, "delete", http.MethodDelete, taskPath(id), nil, nil)
}

type createRequest struct {
	Title string `json:"title"`
}

func taskPath(id int64) string {
	return TodosPath + "/" + strconv.FormatInt(id, 10)
}

// do performs one request. body is JSON-encoded when non-nil; out is decoded
// from a 2xx response when non-nil. Every failure is a *service.TransportError.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &service.TransportError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &service.TransportError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log().Debug("request failed", "op", op, "method", method, "path", path, "request_id", requestID, "err", err)
		return &service.TransportError{Op: op, Err: wrapError(err)}
	}
	defer resp.Body.Close()

	c.log().Debug("request done", "op", op, "method", method, "path", path,
		"request_id", requestID, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log().Debug("error response", "op", op, "request_id", requestID, "body", string(errBody))
		return &service.TransportError{Op: op, Status: resp.StatusCode}
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &service.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

// wrapError replaces timeout errors with a short message.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	return err
}
