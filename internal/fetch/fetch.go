// Package fetch retrieves the user and task lists from the remote endpoints
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"task-reports/internal/models"
	"task-reports/internal/parser"
)

// DefaultMaxBodySize caps the payload read from either endpoint
const DefaultMaxBodySize = 32 << 20

// Client performs the two GET requests of a run
type Client struct {
	UsersURL    string
	TasksURL    string
	HTTP        *http.Client
	MaxBodySize int64 // DefaultMaxBodySize when zero
}

// NewClient creates a Client whose requests time out after timeout
func NewClient(usersURL, tasksURL string, timeout time.Duration) *Client {
	return &Client{
		UsersURL: usersURL,
		TasksURL: tasksURL,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

// Users fetches, validates and decodes the user list
func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	raw, err := c.get(ctx, c.UsersURL)
	if err != nil {
		return nil, err
	}
	return parser.ParseUsers(raw)
}

// Tasks fetches, validates and decodes the task list
func (c *Client) Tasks(ctx context.Context) ([]models.Task, error) {
	raw, err := c.get(ctx, c.TasksURL)
	if err != nil {
		return nil, err
	}
	return parser.ParseTasks(raw)
}

// get returns the body of a successful GET request
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status from %s: %s", url, resp.Status)
	}

	limit := c.MaxBodySize
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("response from %s too large: exceeds %d bytes", url, limit)
	}

	return body, nil
}
