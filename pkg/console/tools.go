package console

import (
	"github.com/inctrack/console-mcp-server/pkg/toolsets"
)

// DefaultTools is the default list of enabled console toolsets.
var DefaultTools = []string{"incidents", "mutations", "comments", "account"}

// DefaultToolsetGroup returns the toolset group of the incident console.
func DefaultToolsetGroup(getSession GetSessionFn, readOnly bool) *toolsets.ToolsetGroup {
	group := toolsets.NewToolsetGroup(readOnly)

	// Incidents toolset: the incident table, paging, expansion and search.
	incidents := toolsets.NewToolset("incidents", "Incident listing, paging and search tools").
		AddReadTools(
			toolsets.NewServerTool(ListIncidents(getSession)),
			toolsets.NewServerTool(ListMyIncidents(getSession)),
			toolsets.NewServerTool(SearchIncidents(getSession)),
			toolsets.NewServerTool(GoToPage(getSession)),
			toolsets.NewServerTool(ExpandIncident(getSession)),
			toolsets.NewServerTool(CollapseIncident(getSession)),
			toolsets.NewServerTool(GetIncident(getSession)),
			toolsets.NewServerTool(FindSimilarIncidents(getSession)),
		)
	group.AddToolset(incidents)

	// Mutations toolset: everything that changes an incident.
	mutations := toolsets.NewToolset("mutations", "Incident lifecycle and assignment tools").
		AddWriteTools(
			toolsets.NewServerTool(ReportIncident(getSession)),
			toolsets.NewServerTool(UpdateSeverity(getSession)),
			toolsets.NewServerTool(UpdateStatus(getSession)),
			toolsets.NewServerTool(AssignTeam(getSession)),
			toolsets.NewServerTool(AssignAdmin(getSession)),
			toolsets.NewServerTool(ResolveIncident(getSession)),
			toolsets.NewServerTool(DeleteIncident(getSession)),
		)
	group.AddToolset(mutations)

	// Comments toolset.
	comments := toolsets.NewToolset("comments", "Incident discussion tools").
		AddReadTools(
			toolsets.NewServerTool(ViewComments(getSession)),
		).
		AddWriteTools(
			toolsets.NewServerTool(AddComment(getSession)),
		)
	group.AddToolset(comments)

	// Account toolset.
	account := toolsets.NewToolset("account", "Session identity and team directory tools").
		AddReadTools(
			toolsets.NewServerTool(WhoAmI(getSession)),
			toolsets.NewServerTool(ListTeams(getSession)),
		).
		AddWriteTools(
			toolsets.NewServerTool(Logout(getSession)),
		)
	group.AddToolset(account)

	return group
}
