// Package client is the JSON/HTTP caller for the four todo operations. It
// surfaces the server's error taxonomy as typed errors so callers can react
// to validation and not-found failures without string matching.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dwhalen/todo-list/internal/apperrors"
	"github.com/dwhalen/todo-list/internal/models"
)

// Client talks to a todo-list server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given server base URL, e.g.
// "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// envelope matches the server's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// List fetches all todos, most recently created first.
func (c *Client) List(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	if err := c.do(ctx, http.MethodGet, "/api/v1/todos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// Create adds a new todo. An empty description is sent as absent and stored
// as null.
func (c *Client) Create(ctx context.Context, title, description string) (*models.Todo, error) {
	payload := map[string]any{"title": title}
	if strings.TrimSpace(description) != "" {
		payload["description"] = description
	}

	var todo models.Todo
	if err := c.do(ctx, http.MethodPost, "/api/v1/todos", payload, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// Toggle flips the completed flag of the todo with the given id.
func (c *Client) Toggle(ctx context.Context, id int64) (*models.Todo, error) {
	var todo models.Todo
	path := fmt.Sprintf("/api/v1/todos/%d/toggle", id)
	if err := c.do(ctx, http.MethodPost, path, struct{}{}, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// Delete removes the todo with the given id. Deleting an id that no longer
// exists is a success.
func (c *Client) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/v1/todos/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewStore("request", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return apperrors.NewStore("decode response", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		message := env.Message
		if message == "" {
			message = resp.Status
		}
		switch resp.StatusCode {
		case http.StatusBadRequest:
			return apperrors.NewValidation(message)
		case http.StatusNotFound:
			return apperrors.NewNotFound(message)
		default:
			return apperrors.NewStore("server", errors.New(message))
		}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return apperrors.NewStore("decode response", err)
		}
	}

	return nil
}
