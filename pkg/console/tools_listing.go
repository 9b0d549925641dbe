package console

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/inctrack/console-mcp-server/pkg/tracker"
)

// ListIncidents creates a tool to load the admin incident listing.
func ListIncidents(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_list_incidents",
			mcp.WithDescription("Load the full incident listing, optionally filtered by status, team or keyword, and show page 1"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "List incidents",
				ReadOnlyHint: ToBoolPtr(true),
			}),
			mcp.WithString("status",
				mcp.Description("Filter by status: Open, Ongoing or Resolved"),
			),
			mcp.WithNumber("team_id",
				mcp.Description("Filter by assigned team id"),
			),
			mcp.WithString("keyword",
				mcp.Description("Filter by a keyword in title or description"),
			),
		), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			status, err := OptionalParam[string](request, "status")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			teamID, err := OptionalInt(request, "team_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			keyword, err := OptionalParam[string](request, "keyword")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			ctx, session, err := getSession(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get console session: %w", err)
			}

			listing, err := session.LoadAll(ctx, tracker.IncidentFilter{
				Status:  status,
				TeamID:  int64(teamID),
				Keyword: keyword,
			})
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return MarshalledTextResult(listing), nil
		}
}

// ListMyIncidents creates a tool to load the caller's own incidents.
func ListMyIncidents(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_list_my_incidents",
			mcp.WithDescription("Load the incidents reported by the current user, newest first, and show page 1"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "List my incidents",
				ReadOnlyHint: ToBoolPtr(true),
			}),
		), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			ctx, session, err := getSession(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get console session: %w", err)
			}

			listing, err := session.LoadMine(ctx)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return MarshalledTextResult(listing), nil
		}
}

// SearchIncidents creates a tool for the listing search box. Queries starting
// with INC look up an exact incident number, everything else is a keyword.
func SearchIncidents(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_search_incidents",
			mcp.WithDescription("Search the incident listing. A query starting with INC (any case) looks up that exact incident number; any other text searches titles and descriptions"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "Search incidents",
				ReadOnlyHint: ToBoolPtr(true),
			}),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Search text, e.g. 'INC-2024-0042' or 'database timeout'"),
			),
		), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			query, err := RequiredParam[string](request, "query")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			ctx, session, err := getSession(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get console session: %w", err)
			}

			listing, err := session.Search(ctx, query)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return MarshalledTextResult(listing), nil
		}
}

// GoToPage creates a tool to flip through the loaded listing.
func GoToPage(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_go_to_page",
			mcp.WithDescription("Show a page of the already loaded incident listing. Page numbers out of range are clamped"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "Go to page",
				ReadOnlyHint: ToBoolPtr(true),
			}),
			mcp.WithNumber("page",
				mcp.Required(),
				mcp.Description("1-based page number"),
			),
		), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			page, err := RequiredInt(request, "page")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			_, session, err := getSession(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get console session: %w", err)
			}
			return MarshalledTextResult(session.GoToPage(page)), nil
		}
}

// ExpandIncident creates a tool to expand a listing row into its detail view,
// comments included.
func ExpandIncident(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_expand_incident",
			mcp.WithDescription("Expand an incident row: full description, assignment state, current comments, and the available actions"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "Expand incident",
				ReadOnlyHint: ToBoolPtr(true),
			}),
			mcp.WithNumber("incident_id",
				mcp.Required(),
				mcp.Description("Numeric id of the incident (from the listing row)"),
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

			expanded, err := session.ExpandRow(ctx, int64(id))
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return MarshalledTextResult(expanded), nil
		}
}

// CollapseIncident creates a tool to collapse an expanded row.
func CollapseIncident(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_collapse_incident",
			mcp.WithDescription("Collapse an expanded incident row back to its summary"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "Collapse incident",
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

			_, session, err := getSession(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get console session: %w", err)
			}
			session.CollapseRow(int64(id))
			return MarshalledTextResult(session.CurrentListing()), nil
		}
}

// GetIncident creates a tool to fetch one incident by its number, bypassing
// the listing cache.
func GetIncident(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_get_incident",
			mcp.WithDescription("Fetch a single incident by its incident number, straight from the backend"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "Get incident",
				ReadOnlyHint: ToBoolPtr(true),
			}),
			mcp.WithString("incident_number",
				mcp.Required(),
				mcp.Description("Incident number, e.g. 'INC-2024-0042'"),
			),
		), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			number, err := RequiredParam[string](request, "incident_number")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			ctx, session, err := getSession(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get console session: %w", err)
			}

			inc, err := session.client.GetIncident(ctx, number)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			admin, err := session.CurrentUser(ctx)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return MarshalledTextResult(RenderDetail(inc, admin.IsAdmin())), nil
		}
}

// FindSimilarIncidents creates a tool for duplicate detection.
func FindSimilarIncidents(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_find_similar_incidents",
			mcp.WithDescription("Find incidents similar to the given one, strongest match first"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "Find similar incidents",
				ReadOnlyHint: ToBoolPtr(true),
			}),
			mcp.WithString("incident_number",
				mcp.Required(),
				mcp.Description("Incident number to find duplicates of"),
			),
		), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			number, err := RequiredParam[string](request, "incident_number")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			ctx, session, err := getSession(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get console session: %w", err)
			}

			matches, err := session.FindSimilar(ctx, number)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return MarshalledTextResult(matches), nil
		}
}
