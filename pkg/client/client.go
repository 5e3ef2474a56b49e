// Package client is the Go SDK for the FixMyCity API. It wraps the REST
// surface with typed calls, an explicit Session object, and a bounded retry
// on HTTP 429 responses.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	maxAttempts = 3
	baseBackoff = 200 * time.Millisecond
)

// User is the sanitized user projection returned by the API.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Report mirrors the API's report payload.
type Report struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"type"`
	ImagePath   string    `json:"image,omitempty"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Status      string    `json:"status"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to one FixMyCity deployment. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// New creates a Client for baseURL. httpClient may be nil.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// UseSession attaches a session to the client; subsequent calls send its
// bearer token.
func (c *Client) UseSession(s *Session) {
	c.session = s
}

// Session returns the currently attached session, or nil.
func (c *Client) Session() *Session {
	return c.session
}

// Register creates an account. Role may be empty; the server defaults it.
func (c *Client) Register(ctx context.Context, name, email, password, role string) (*User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	if role != "" {
		body["role"] = role
	}

	var out struct {
		User User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", body, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Login authenticates and attaches the resulting session to the client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var out struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}

	c.session = &Session{Token: out.Token, User: out.User}
	return c.session, nil
}

// CreateReportInput carries a report submission. Image and ImageName are
// optional; when Image is non-nil its bytes are sent as the multipart photo.
type CreateReportInput struct {
	Title       string
	Description string
	Category    string
	Latitude    float64
	Longitude   float64
	Image       io.Reader
	ImageName   string
}

// CreateReport submits a new report (multipart).
func (c *Client) CreateReport(ctx context.Context, input CreateReportInput) (*Report, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":       input.Title,
		"description": input.Description,
		"type":        input.Category,
		"latitude":    fmt.Sprintf("%g", input.Latitude),
		"longitude":   fmt.Sprintf("%g", input.Longitude),
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write form field: %w", err)
		}
	}
	if input.Image != nil {
		name := input.ImageName
		if name == "" {
			name = "photo.jpg"
		}
		part, err := w.CreateFormFile("image", name)
		if err != nil {
			return nil, fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, input.Image); err != nil {
			return nil, fmt.Errorf("copy image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var out struct {
		Report Report `json:"report"`
	}
	err := c.do(ctx, http.MethodPost, "/api/reports", buf.Bytes(), w.FormDataContentType(), &out)
	if err != nil {
		return nil, err
	}
	return &out.Report, nil
}

// ListReports returns all reports, optionally filtered by status and category.
func (c *Client) ListReports(ctx context.Context, status, category string) ([]Report, error) {
	path := "/api/reports"
	query := make([]string, 0, 2)
	if status != "" {
		query = append(query, "status="+status)
	}
	if category != "" {
		query = append(query, "type="+category)
	}
	if len(query) > 0 {
		path += "?" + strings.Join(query, "&")
	}

	var out struct {
		Reports []Report `json:"reports"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Reports, nil
}

// MyReports returns the authenticated user's own reports.
func (c *Client) MyReports(ctx context.Context) ([]Report, error) {
	var out struct {
		Reports []Report `json:"reports"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/reports/mine", nil, &out); err != nil {
		return nil, err
	}
	return out.Reports, nil
}

// GetReport fetches a single report by id.
func (c *Client) GetReport(ctx context.Context, id string) (*Report, error) {
	var out struct {
		Report Report `json:"report"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/reports/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out.Report, nil
}

// UpdateStatus sets a report's status (agent/admin only).
func (c *Client) UpdateStatus(ctx context.Context, id, status string) (*Report, error) {
	var out struct {
		Report Report `json:"report"`
	}
	err := c.doJSON(ctx, http.MethodPut, "/api/reports/"+id+"/status", map[string]string{"status": status}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Report, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}
	return c.do(ctx, method, path, payload, "application/json", out)
}

// do executes one request with a bounded retry: only 429 responses are
// retried, at most maxAttempts total, with exponential backoff between
// attempts. All other failures return immediately.
func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := baseBackoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return err
		}
		if len(body) > 0 {
			req.Header.Set("Content-Type", contentType)
		}
		if c.session != nil && c.session.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.session.Token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			lastErr = &APIError{StatusCode: resp.StatusCode, Message: "too many requests"}
			continue
		}

		return decodeResponse(resp, out)
	}

	return lastErr
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error string `json:"error"`
		}
		msg := resp.Status
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
			msg = envelope.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
