// Package client is a Go client for the task manager API. Authentication
// state lives in an explicit Session rather than in global storage.
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
	"strings"

	"taskmanager-be/internal/models"
)

// ErrNotAuthenticated is returned by task calls made without a session token
var ErrNotAuthenticated = errors.New("not authenticated")

// APIError is a non-2xx answer from the server
type APIError struct {
	StatusCode int
	Message    string
	Fields     []models.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

// New returns a client for the API rooted at baseURL (for example
// "http://localhost:8080/api"). A nil httpClient means http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		session:    NewSession(),
	}
}

func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*models.UserResponse, error) {
	var user models.UserResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", false, models.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and stores the issued token in the session
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp models.LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", false, models.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return err
	}
	c.session.set(resp.Token)
	return nil
}

// Logout drops the session token. Tokens are stateless, so nothing is sent
// to the server.
func (c *Client) Logout() {
	c.session.Clear()
}

func (c *Client) ListTasks(ctx context.Context) ([]models.TaskResponse, error) {
	var tasks []models.TaskResponse
	if err := c.do(ctx, http.MethodGet, "/tasks", true, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, title string) (*models.TaskResponse, error) {
	var task models.TaskResponse
	if err := c.do(ctx, http.MethodPost, "/tasks", true, models.CreateTaskRequest{Title: title}, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, update models.UpdateTaskRequest) error {
	return c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), true, update, nil)
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), true, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, authenticated bool, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		token, ok := c.session.Token()
		if !ok {
			return ErrNotAuthenticated
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeAPIError(resp)
		if authenticated && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			c.session.Clear()
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) *APIError {
	var body struct {
		Error  string              `json:"error"`
		Errors []models.FieldError `json:"errors"`
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Error
		apiErr.Fields = body.Errors
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
