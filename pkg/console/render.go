package console

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/inctrack/console-mcp-server/pkg/tracker"
)

// summaryTokens is the number of whitespace-separated tokens kept in a
// collapsed row's description summary.
const summaryTokens = 10

// unassignedLabel is shown for empty team/admin assignment fields.
const unassignedLabel = "Unassigned"

// noDescriptionLabel is shown when an incident has no description text.
const noDescriptionLabel = "No description"

// Row is the collapsed representation of one incident in the listing.
type Row struct {
	ID             int64  `json:"id"`
	IncidentNumber string `json:"incident_number"`
	Title          string `json:"title"`
	Summary        string `json:"summary"`
	SeverityLevel  string `json:"severity_level"`
	Status         string `json:"status"`
	SubmittedAt    string `json:"submitted_at"`
	Expanded       bool   `json:"expanded"`
}

// Affordances lists which actions the expanded view offers for an incident.
// A resolved incident is frozen: nothing can be edited, only its resolution
// read.
type Affordances struct {
	CanEditSeverity bool `json:"can_edit_severity"`
	CanEditStatus   bool `json:"can_edit_status"`
	CanAssign       bool `json:"can_assign"`
	CanResolve      bool `json:"can_resolve"`
	CanDelete       bool `json:"can_delete"`
	CanComment      bool `json:"can_comment"`
	ShowResolution  bool `json:"show_resolution"`
}

// Detail is the expanded representation of one incident.
type Detail struct {
	ID              int64       `json:"id"`
	IncidentNumber  string      `json:"incident_number"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	SeverityLevel   string      `json:"severity_level"`
	Status          string      `json:"status"`
	CreatedBy       string      `json:"created_by"`
	SubmittedAt     string      `json:"submitted_at"`
	AssignedTeam    string      `json:"assigned_team"`
	AssignedAdmin   string      `json:"assigned_admin"`
	Resolution      string      `json:"resolution,omitempty"`
	State           string      `json:"assignment_state"`
	Affordances     Affordances `json:"affordances"`
	StatusOptions   []string    `json:"status_options"`
	SeverityOptions []string    `json:"severity_options"`
}

// Summarize returns the first summaryTokens whitespace-separated tokens of
// the description. The ellipsis is unconditional: collapsed rows always hint
// at the full text behind them, even when nothing was cut.
func Summarize(description string) string {
	tokens := strings.Fields(description)
	if len(tokens) == 0 {
		return noDescriptionLabel
	}
	if len(tokens) > summaryTokens {
		tokens = tokens[:summaryTokens]
	}
	return strings.Join(tokens, " ") + "..."
}

// FormatTimestamp renders a submission time as "March 21st, 14:30".
// A missing timestamp renders as "Unknown".
func FormatTimestamp(t *time.Time) string {
	if t == nil {
		return "Unknown"
	}
	return fmt.Sprintf("%s %d%s, %02d:%02d",
		t.Month().String(), t.Day(), ordinalSuffix(t.Day()), t.Hour(), t.Minute())
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// RenderRow builds the collapsed row descriptor for one incident.
func RenderRow(inc *tracker.Incident, expanded bool) Row {
	return Row{
		ID:             inc.ID,
		IncidentNumber: inc.IncidentNumber,
		Title:          inc.Title,
		Summary:        Summarize(inc.Description),
		SeverityLevel:  inc.SeverityLevel,
		Status:         inc.Status,
		SubmittedAt:    FormatTimestamp(inc.CreatedAt),
		Expanded:       expanded,
	}
}

// RenderPage builds row descriptors for a page of incidents. isExpanded
// reports view state per incident id; rendering itself never touches state.
func RenderPage(incidents []tracker.Incident, isExpanded func(int64) bool) []Row {
	rows := make([]Row, 0, len(incidents))
	for i := range incidents {
		rows = append(rows, RenderRow(&incidents[i], isExpanded(incidents[i].ID)))
	}
	return rows
}

// RenderDetail builds the expanded descriptor for one incident as seen by an
// admin (admin=true) or a regular user.
//
// "Closed" survives in old records but is no longer offered as a target
// status; such incidents render read-only like resolved ones.
func RenderDetail(inc *tracker.Incident, admin bool) Detail {
	frozen := inc.Resolved() || inc.Status == tracker.StatusClosed

	aff := Affordances{
		CanEditSeverity: admin && !frozen,
		CanEditStatus:   admin && !frozen,
		CanAssign:       admin && !frozen,
		CanResolve:      admin && !frozen,
		CanDelete:       admin,
		CanComment:      true,
		ShowResolution:  inc.Resolved() && inc.Resolution != "",
	}

	description := inc.Description
	if strings.TrimSpace(description) == "" {
		description = noDescriptionLabel
	}

	d := Detail{
		ID:             inc.ID,
		IncidentNumber: inc.IncidentNumber,
		Title:          inc.Title,
		Description:    description,
		SeverityLevel:  inc.SeverityLevel,
		Status:         inc.Status,
		CreatedBy:      inc.CreatedBy,
		SubmittedAt:    FormatTimestamp(inc.CreatedAt),
		AssignedTeam:   unassignedLabel,
		AssignedAdmin:  unassignedLabel,
		State:          string(StateOf(inc)),
		Affordances:    aff,
	}
	if inc.AssignedTeam != nil {
		d.AssignedTeam = inc.AssignedTeam.Name
	}
	if inc.AssignedAdmin != nil {
		d.AssignedAdmin = inc.AssignedAdmin.Username
	}
	if aff.ShowResolution {
		d.Resolution = inc.Resolution
	}
	if aff.CanEditStatus {
		// Resolved is reachable only through the resolve action, which
		// requires resolution text.
		d.StatusOptions = []string{tracker.StatusOpen, tracker.StatusOngoing}
	}
	if aff.CanEditSeverity {
		d.SeverityOptions = []string{tracker.SeverityLow, tracker.SeverityMedium, tracker.SeverityHigh}
	}
	return d
}

// RenderMatches formats similarity results, strongest match first.
func RenderMatches(matches []tracker.MatchResult) []string {
	sorted := make([]tracker.MatchResult, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MatchPercentage > sorted[j].MatchPercentage
	})

	lines := make([]string, 0, len(sorted))
	for _, m := range sorted {
		lines = append(lines, fmt.Sprintf("Incident %s - %s (%.2f%% match)",
			m.IncidentNumber, m.Title, m.MatchPercentage))
	}
	return lines
}
