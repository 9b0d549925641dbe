package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/inctrack/console-mcp-server/pkg/trace"
)

// Client talks to the incident tracker REST API under /api.
// Authentication is session-cookie based: the jar carries the backend session
// cookie, and an optional bearer token can be set for deployments that front
// the tracker with a token gateway.
type Client struct {
	httpClient   *http.Client
	baseURL      *url.URL
	sessionToken string
	userAgent    string
}

// NewClient creates a tracker API client rooted at baseURL.
func NewClient(baseURL, sessionToken, userAgent string) (*Client, error) {
	if baseURL == "" {
		baseURL = "http://localhost:8080/api"
	}

	parsedURL, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		baseURL:      parsedURL,
		sessionToken: sessionToken,
		userAgent:    userAgent,
	}, nil
}

// SetUserAgent sets the user agent for the client.
func (c *Client) SetUserAgent(userAgent string) {
	c.userAgent = userAgent
}

// makeRequest issues an HTTP request against the tracker API. body is JSON
// encoded when non-nil; params (a struct with url tags) is encoded into the
// query string when non-nil.
func (c *Client) makeRequest(ctx context.Context, method, path string, params, body interface{}) (*http.Response, error) {
	var reqBody io.Reader

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	parsedPath, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse path: %w", err)
	}

	fullURL := c.baseURL.ResolveReference(parsedPath)
	if params != nil {
		values, err := query.Values(params)
		if err != nil {
			return nil, fmt.Errorf("failed to encode query parameters: %w", err)
		}
		q := fullURL.Query()
		for key, vals := range values {
			for _, v := range vals {
				q.Set(key, v)
			}
		}
		fullURL.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.sessionToken)
	}
	if tc := trace.FromContext(ctx); tc != nil {
		tc.SetHTTPHeaders(req.Header)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request to %s %s: %v", method, fullURL.Path, err)
	}

	return resp, nil
}

// APIError is a non-2xx response from the tracker backend. Body holds the
// server's error text, which the original backend uses to report business
// rejections ("Team not found!", validation messages, ...).
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tracker API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("tracker API error (status %d): %s", e.StatusCode, e.Body)
}

// parseResponse reads and closes the response body. Non-2xx statuses become
// *APIError. When v is non-nil the body is unmarshalled into it.
func parseResponse(resp *http.Response, v interface{}) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if v != nil {
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// parseTextResponse is parseResponse for endpoints that answer with plain
// text (the mutation endpoints respond "Incident successfully updated!" etc).
func parseTextResponse(resp *http.Response) (string, error) {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	text := strings.TrimSpace(string(body))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: text}
	}

	return text, nil
}
