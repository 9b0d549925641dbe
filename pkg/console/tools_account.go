package console

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// WhoAmI creates a tool that reports the authenticated user and role.
func WhoAmI(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_whoami",
			mcp.WithDescription("Show the username and role of the current backend session"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "Who am I",
				ReadOnlyHint: ToBoolPtr(true),
			}),
		), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			ctx, session, err := getSession(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get console session: %w", err)
			}

			user, err := session.CurrentUser(ctx)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return MarshalledTextResult(user), nil
		}
}

// ListTeams creates a tool that enumerates the assignable teams.
func ListTeams(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_list_teams",
			mcp.WithDescription("List the teams incidents can be assigned to"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "List teams",
				ReadOnlyHint: ToBoolPtr(true),
			}),
		), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			ctx, session, err := getSession(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get console session: %w", err)
			}

			teams, err := session.TeamOptions(ctx)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return MarshalledTextResult(teams), nil
		}
}

// Logout creates a tool that ends the backend session.
func Logout(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_logout",
			mcp.WithDescription("Log out of the incident tracker backend"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "Log out",
				ReadOnlyHint: ToBoolPtr(false),
			}),
		), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			ctx, session, err := getSession(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get console session: %w", err)
			}

			if err := session.Logout(ctx); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText("logged out"), nil
		}
}
