package tracker

import (
	"context"
	"fmt"
	"net/http"
)

// CurrentUser returns the username and role of the authenticated session.
func (c *Client) CurrentUser(ctx context.Context) (*UserInfo, error) {
	resp, err := c.makeRequest(ctx, "GET", "/users/role", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	var user UserInfo
	if err := parseResponse(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout terminates the backend session. The logout endpoint lives at the
// host root, outside the /api prefix.
func (c *Client) Logout(ctx context.Context) error {
	logoutURL := *c.baseURL
	logoutURL.Path = "/perform_logout"
	logoutURL.RawQuery = ""

	req, err := http.NewRequestWithContext(ctx, "POST", logoutURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create logout request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to log out: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// The backend answers with a redirect to the login page; anything short
	// of a server error means the session is gone.
	if resp.StatusCode >= 500 {
		return &APIError{StatusCode: resp.StatusCode}
	}
	return nil
}
