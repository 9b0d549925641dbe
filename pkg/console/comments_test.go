package console

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inctrack/console-mcp-server/pkg/tracker"
)

func commentsBackend(t *testing.T) (*CommentsPanel, *fakeTracker) {
	t.Helper()

	server, backend := testServer(t, map[string]interface{}{
		"GET /incidents/1/comments": []interface{}{
			map[string]interface{}{"id": 1, "content": "first", "createdBy": "alice"},
			map[string]interface{}{"id": 2, "content": "from someone else", "createdBy": "bob"},
		},
		"POST /incidents/1/comments": "Comment added successfully!",
	})
	client, err := tracker.NewClient(server.URL, "", "test-agent")
	require.NoError(t, err)
	return NewCommentsPanel(client), backend
}

func TestPostRefetchesThread(t *testing.T) {
	panel, backend := commentsBackend(t)

	comments, err := panel.Post(context.Background(), 1, "looking into it")
	require.NoError(t, err)

	// The returned thread is the server's, not a local append: it already
	// contains interleaved comments from other users.
	require.Len(t, comments, 2)
	assert.Equal(t, "bob", comments[1].CreatedBy)
	assert.Equal(t, 1, backend.hitCount("POST /incidents/1/comments"))
	assert.Equal(t, 1, backend.hitCount("GET /incidents/1/comments"))
}

func TestPostRejectsBlankComment(t *testing.T) {
	panel, backend := commentsBackend(t)

	_, err := panel.Post(context.Background(), 1, "   \t ")
	assert.ErrorIs(t, err, ErrEmptyComment)
	assert.Equal(t, 0, backend.hitCount("POST /incidents/1/comments"))
}

func TestOpenAlwaysRefetches(t *testing.T) {
	panel, backend := commentsBackend(t)

	for i := 0; i < 3; i++ {
		_, err := panel.Open(context.Background(), 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, backend.hitCount("GET /incidents/1/comments"))
}
