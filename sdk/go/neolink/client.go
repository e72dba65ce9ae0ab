// Package neolink provides a small Go client for the NeoLink REST API.
package neolink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"
)

// DefaultHTTPTimeout defines the timeout used by clients created without a
// custom http.Client. It is intentionally short to avoid hanging network calls.
const DefaultHTTPTimeout = 15 * time.Second

// Client wraps the HTTP interactions with the NeoLink REST API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Message is one processed conversation turn returned by the API.
type Message struct {
	ID        string `json:"id"`
	UserKey   string `json:"user_key"`
	Body      string `json:"body"`
	Intent    string `json:"intent"`
	Reply     string `json:"reply"`
	CreatedAt int64  `json:"created_at"`
}

// Health is the payload of the health endpoint.
type Health struct {
	Status   string   `json:"status"`
	Agent    string   `json:"agent"`
	Features []string `json:"features"`
	Version  string   `json:"version"`
}

// APIError represents server side validation or internal errors.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("neolink api error (%d): %s", e.StatusCode, e.Message)
}

// NewClient instantiates a client for the NeoLink API. When httpClient is
// nil, a default client with a sensible timeout is used.
func NewClient(rawURL string, httpClient *http.Client) (*Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &Client{baseURL: parsed, httpClient: httpClient}, nil
}

// SendMessage drives one message through the assistant and returns the reply.
func (c *Client) SendMessage(ctx context.Context, userKey, body string) (string, error) {
	payload := map[string]string{"user_key": userKey, "body": body}
	var out struct {
		Reply string `json:"reply"`
	}
	if err := c.post(ctx, "/api/v1/messages", payload, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

// ListMessages fetches the most recent conversation turns. An empty userKey
// lists turns across all users.
func (c *Client) ListMessages(ctx context.Context, userKey string, limit int) ([]Message, error) {
	query := url.Values{}
	if userKey != "" {
		query.Set("user_key", userKey)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	endpoint := "/api/v1/messages"
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var out []Message
	if err := c.get(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health checks the service health endpoint.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	if err := c.get(ctx, "/health", &out); err != nil {
		return Health{}, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	rel := &url.URL{Path: path.Join(c.baseURL.Path, parsed.Path), RawQuery: parsed.RawQuery}
	u := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("read error response: %w", readErr)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
