package console

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// UpdateSeverity creates a tool to change an incident's severity level.
func UpdateSeverity(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_update_severity",
			mcp.WithDescription("Set the severity level of an incident and refresh the listing"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "Update severity",
				ReadOnlyHint: ToBoolPtr(false),
			}),
			mcp.WithNumber("incident_id",
				mcp.Required(),
				mcp.Description("Numeric id of the incident"),
			),
			mcp.WithString("severity_level",
				mcp.Required(),
				mcp.Description("New severity: Low, Medium or High"),
				mcp.Enum("Low", "Medium", "High"),
			),
		), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := RequiredInt(request, "incident_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			severity, err := RequiredParam[string](request, "severity_level")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			ctx, session, err := getSession(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get console session: %w", err)
			}

			listing, err := session.SetSeverity(ctx, int64(id), severity)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return MarshalledTextResult(listing), nil
		}
}

// UpdateStatus creates a tool to change an incident's status. Resolving goes
// through console_resolve_incident instead, because it needs resolution text.
func UpdateStatus(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_update_status",
			mcp.WithDescription("Set the status of an incident to Open or Ongoing and refresh the listing. Use console_resolve_incident to resolve"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "Update status",
				ReadOnlyHint: ToBoolPtr(false),
			}),
			mcp.WithNumber("incident_id",
				mcp.Required(),
				mcp.Description("Numeric id of the incident"),
			),
			mcp.WithString("status",
				mcp.Required(),
				mcp.Description("New status: Open or Ongoing"),
				mcp.Enum("Open", "Ongoing"),
			),
		), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := RequiredInt(request, "incident_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			status, err := RequiredParam[string](request, "status")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			ctx, session, err := getSession(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get console session: %w", err)
			}

			listing, err := session.SetStatus(ctx, int64(id), status)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return MarshalledTextResult(listing), nil
		}
}

// AssignTeam creates a tool for the team half of the assignment cascade.
func AssignTeam(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_assign_team",
			mcp.WithDescription("Assign an incident to a team. Omit team_id to unassign. Any team change also clears the assigned admin and returns the new team's admin roster"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "Assign team",
				ReadOnlyHint: ToBoolPtr(false),
			}),
			mcp.WithNumber("incident_id",
				mcp.Required(),
				mcp.Description("Numeric id of the incident"),
			),
			mcp.WithNumber("team_id",
				mcp.Description("Id of the team to assign; omit to unassign team and admin"),
			),
		), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := RequiredInt(request, "incident_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			teamID, err := OptionalInt64Ptr(request, "team_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			ctx, session, err := getSession(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get console session: %w", err)
			}

			roster, listing, err := session.AssignTeam(ctx, int64(id), teamID)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return MarshalledTextResult(struct {
				Roster  Roster  `json:"admin_roster"`
				Listing Listing `json:"listing"`
			}{roster, listing}), nil
		}
}

// AssignAdmin creates a tool for the admin half of the assignment cascade.
func AssignAdmin(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_assign_admin",
			mcp.WithDescription("Assign an admin from the assigned team's roster to an incident. Omit admin_id to unassign the admin only"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "Assign admin",
				ReadOnlyHint: ToBoolPtr(false),
			}),
			mcp.WithNumber("incident_id",
				mcp.Required(),
				mcp.Description("Numeric id of the incident"),
			),
			mcp.WithNumber("admin_id",
				mcp.Description("Id of the admin to assign; omit to unassign"),
			),
		), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := RequiredInt(request, "incident_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			adminID, err := OptionalInt64Ptr(request, "admin_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			ctx, session, err := getSession(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get console session: %w", err)
			}

			listing, err := session.AssignAdmin(ctx, int64(id), adminID)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return MarshalledTextResult(listing), nil
		}
}

// ResolveIncident creates a tool to resolve an incident with resolution text.
func ResolveIncident(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_resolve_incident",
			mcp.WithDescription("Resolve an incident with a resolution note and refresh the listing. Resolved incidents become read-only"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "Resolve incident",
				ReadOnlyHint: ToBoolPtr(false),
			}),
			mcp.WithNumber("incident_id",
				mcp.Required(),
				mcp.Description("Numeric id of the incident"),
			),
			mcp.WithString("resolution",
				mcp.Required(),
				mcp.Description("What fixed the incident"),
			),
		), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := RequiredInt(request, "incident_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			resolution, err := RequiredParam[string](request, "resolution")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			ctx, session, err := getSession(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get console session: %w", err)
			}

			listing, err := session.ResolveIncident(ctx, int64(id), resolution)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return MarshalledTextResult(listing), nil
		}
}

// DeleteIncident creates a tool to delete an incident.
func DeleteIncident(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_delete_incident",
			mcp.WithDescription("Delete an incident and refresh the listing. If the backend rejects the delete, the incident stays in the listing"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "Delete incident",
				ReadOnlyHint: ToBoolPtr(false),
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

			listing, err := session.DeleteIncident(ctx, int64(id))
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return MarshalledTextResult(listing), nil
		}
}

// ReportIncident creates a tool for the report form.
func ReportIncident(getSession GetSessionFn) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("console_report_incident",
			mcp.WithDescription("Report a new incident. The title needs at least 20 characters and the description at least 50 characters of real prose"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "Report incident",
				ReadOnlyHint: ToBoolPtr(false),
			}),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Short summary of the incident, at least 20 characters"),
			),
			mcp.WithString("description",
				mcp.Required(),
				mcp.Description("What happened, at least 50 characters"),
			),
			mcp.WithString("severity_level",
				mcp.Required(),
				mcp.Description("Severity: Low, Medium or High"),
				mcp.Enum("Low", "Medium", "High"),
			),
		), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			title, err := RequiredParam[string](request, "title")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			description, err := RequiredParam[string](request, "description")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			severity, err := RequiredParam[string](request, "severity_level")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			ctx, session, err := getSession(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get console session: %w", err)
			}

			msg, problems, err := session.ReportIncident(ctx, Submission{
				Title:         title,
				Description:   description,
				SeverityLevel: severity,
			})
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if len(problems) > 0 {
				return MarshalledTextResult(struct {
					Accepted bool     `json:"accepted"`
					Problems []string `json:"problems"`
				}{false, problems}), nil
			}
			return MarshalledTextResult(struct {
				Accepted bool   `json:"accepted"`
				Message  string `json:"message"`
			}{true, msg}), nil
		}
}
