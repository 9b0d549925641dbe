package tracker

import (
	"context"
	"fmt"
)

// ListComments returns the comments of an incident in server order.
func (c *Client) ListComments(ctx context.Context, incidentID int64) ([]Comment, error) {
	resp, err := c.makeRequest(ctx, "GET", fmt.Sprintf("/incidents/%d/comments", incidentID), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	var comments []Comment
	if err := parseResponse(resp, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// PostComment appends a comment to an incident.
func (c *Client) PostComment(ctx context.Context, incidentID int64, content string) error {
	body := map[string]interface{}{"content": content}
	resp, err := c.makeRequest(ctx, "POST", fmt.Sprintf("/incidents/%d/comments", incidentID), nil, body)
	if err != nil {
		return fmt.Errorf("failed to post comment: %w", err)
	}
	_, err = parseTextResponse(resp)
	return err
}
