package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/inctrack/console-mcp-server/pkg/tracker"
)

// ErrEmptyComment rejects comments that are empty after trimming.
var ErrEmptyComment = errors.New("comment content must not be empty")

// CommentsPanel handles the discussion thread of an incident. It keeps no
// comment cache at all: every open and every post re-reads the thread, so two
// people commenting on the same incident always converge on the server's
// ordering.
type CommentsPanel struct {
	client *tracker.Client
}

// NewCommentsPanel creates a panel backed by client.
func NewCommentsPanel(client *tracker.Client) *CommentsPanel {
	return &CommentsPanel{client: client}
}

// Open fetches the current thread of an incident.
func (p *CommentsPanel) Open(ctx context.Context, incidentID int64) ([]tracker.Comment, error) {
	comments, err := p.client.ListComments(ctx, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	return comments, nil
}

// Post submits a comment and returns the refetched thread. The posted
// comment is never appended locally; the thread the caller sees is whatever
// the server returns afterwards, interleaved submissions included.
func (p *CommentsPanel) Post(ctx context.Context, incidentID int64, content string) ([]tracker.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyComment
	}

	if err := p.client.PostComment(ctx, incidentID, content); err != nil {
		return nil, fmt.Errorf("failed to post comment: %w", err)
	}
	return p.Open(ctx, incidentID)
}
