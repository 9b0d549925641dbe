package console

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ViewComments creates a tool to read an incident's comment thread.
func ViewComments(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_view_comments",
			mcp.WithDescription("Fetch the current comment thread of an incident"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "View comments",
				ReadOnlyHint: ToBoolPtr(true),
			}),
			mcp.WithNumber("incident_id",
				mcp.Required(),
				mcp.Description("Numeric id of the incident"),
			),
		), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := RequiredInt(request, "incident_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			ctx, session, err := getSession(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get console session: %w", err)
			}

			comments, err := session.OpenComments(ctx, int64(id))
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return MarshalledTextResult(comments), nil
		}
}

// AddComment creates a tool to post a comment. The reply is the refetched
// thread, so interleaved comments from other users show up immediately.
func AddComment(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_add_comment",
			mcp.WithDescription("Post a comment on an incident and return the updated thread"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "Add comment",
				ReadOnlyHint: ToBoolPtr(false),
			}),
			mcp.WithNumber("incident_id",
				mcp.Required(),
				mcp.Description("Numeric id of the incident"),
			),
			mcp.WithString("content",
				mcp.Required(),
				mcp.Description("Comment text, must not be blank"),
			),
		), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := RequiredInt(request, "incident_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			content, err := RequiredParam[string](request, "content")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			ctx, session, err := getSession(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get console session: %w", err)
			}

			comments, err := session.AddComment(ctx, int64(id), content)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return MarshalledTextResult(comments), nil
		}
}
