// Package notesclient calls the notes HTTP API on behalf of a chat user.
package notesclient

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
	"time"
)

type User struct {
	Id         string    `json:"id"`
	Username   string    `json:"username"`
	ExternalId *string   `json:"external_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type Note struct {
	Id        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NoteInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// NoteUpdate sends only the non-nil fields.
type NoteUpdate struct {
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status   int
	Category string
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notes api error (status %d, %s): %s", e.Status, e.Category, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0 for transport failures.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type envelope struct {
	Success  bool            `json:"success"`
	Code     int             `json:"code"`
	Category string          `json:"category"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the API rooted at baseURL, e.g. http://localhost:8000/api.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) Register(ctx context.Context, username, password string, externalId *string) (*User, error) {
	body := map[string]interface{}{"username": username, "password": password}
	if externalId != nil {
		body["external_id"] = *externalId
	}
	var user User
	if err := c.do(ctx, http.MethodPost, "/register", "", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*Token, error) {
	var tok Token
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", "", body, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func (c *Client) LoginByExternalId(ctx context.Context, externalId string) (*Token, error) {
	var tok Token
	body := map[string]string{"external_id": externalId}
	if err := c.do(ctx, http.MethodPost, "/login_by_external_id", "", body, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func (c *Client) AttachExternalId(ctx context.Context, username, password, externalId string) (*User, error) {
	var user User
	body := map[string]string{"username": username, "password": password, "external_id": externalId}
	if err := c.do(ctx, http.MethodPost, "/add_external", "", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CreateNote(ctx context.Context, token string, in NoteInput) (*Note, error) {
	if in.Tags == nil {
		in.Tags = []string{}
	}
	var note Note
	if err := c.do(ctx, http.MethodPost, "/notes/", token, in, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) GetNote(ctx context.Context, token, id string) (*Note, error) {
	var note Note
	if err := c.do(ctx, http.MethodGet, "/notes/"+url.PathEscape(id), token, nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) UpdateNote(ctx context.Context, token, id string, upd NoteUpdate) (*Note, error) {
	var note Note
	if err := c.do(ctx, http.MethodPut, "/notes/"+url.PathEscape(id), token, upd, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) DeleteNote(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), token, nil, nil)
}

func (c *Client) ListNotes(ctx context.Context, token string) ([]Note, error) {
	notes := []Note{}
	if err := c.do(ctx, http.MethodGet, "/notes/", token, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) SearchByTag(ctx context.Context, token, tag string) ([]Note, error) {
	notes := []Note{}
	if err := c.do(ctx, http.MethodGet, "/notes/tag/"+url.PathEscape(tag), token, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	var reader io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(bodyBytes))}
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !env.Success {
		return &APIError{Status: resp.StatusCode, Category: env.Category, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}
	return nil
}
