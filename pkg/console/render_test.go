package console

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/inctrack/console-mcp-server/pkg/tracker"
)

func TestSummarize(t *testing.T) {
	// The ellipsis is unconditional, cut or not.
	short := "Database connection pool exhausted during deploy"
	assert.Equal(t, short+"...", Summarize(short))

	long := "one two three four five six seven eight nine ten eleven twelve"
	assert.Equal(t, "one two three four five six seven eight nine ten...", Summarize(long))

	exact := "one two three four five six seven eight nine ten"
	assert.Equal(t, exact+"...", Summarize(exact))

	// Runs of whitespace collapse instead of producing empty tokens.
	assert.Equal(t, "a b...", Summarize("  a \t b  "))

	assert.Equal(t, "No description", Summarize(""))
	assert.Equal(t, "No description", Summarize("   "))
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "Unknown", FormatTimestamp(nil))

	cases := map[string]time.Time{
		"March 21st, 14:30":   time.Date(2024, time.March, 21, 14, 30, 0, 0, time.UTC),
		"April 2nd, 09:05":    time.Date(2024, time.April, 2, 9, 5, 0, 0, time.UTC),
		"May 3rd, 00:00":      time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC),
		"June 11th, 23:59":    time.Date(2024, time.June, 11, 23, 59, 0, 0, time.UTC),
		"July 13th, 12:00":    time.Date(2024, time.July, 13, 12, 0, 0, 0, time.UTC),
		"August 22nd, 06:15":  time.Date(2024, time.August, 22, 6, 15, 0, 0, time.UTC),
		"October 31st, 18:45": time.Date(2024, time.October, 31, 18, 45, 0, 0, time.UTC),
	}
	for want, ts := range cases {
		ts := ts
		assert.Equal(t, want, FormatTimestamp(&ts))
	}
}

func openIncident() *tracker.Incident {
	created := time.Date(2024, time.March, 21, 14, 30, 0, 0, time.UTC)
	return &tracker.Incident{
		ID:             1,
		IncidentNumber: "INC-2024-0001",
		Title:          "Database connection pool exhausted",
		Description:    "Connections pile up during deploys and the pool never recovers without a restart",
		SeverityLevel:  tracker.SeverityHigh,
		Status:         tracker.StatusOpen,
		CreatedBy:      "reporter",
		CreatedAt:      &created,
	}
}

func TestRenderDetailAdminAffordances(t *testing.T) {
	d := RenderDetail(openIncident(), true)

	assert.True(t, d.Affordances.CanEditSeverity)
	assert.True(t, d.Affordances.CanEditStatus)
	assert.True(t, d.Affordances.CanAssign)
	assert.True(t, d.Affordances.CanResolve)
	assert.True(t, d.Affordances.CanDelete)
	assert.True(t, d.Affordances.CanComment)
	assert.False(t, d.Affordances.ShowResolution)

	// Resolved needs resolution text and Closed is deprecated, so neither is
	// offered as a target status.
	assert.Equal(t, []string{"Open", "Ongoing"}, d.StatusOptions)
	assert.Equal(t, []string{"Low", "Medium", "High"}, d.SeverityOptions)
	assert.Equal(t, "Unassigned", d.AssignedTeam)
	assert.Equal(t, "Unassigned", d.AssignedAdmin)
	assert.Equal(t, string(StateUnassigned), d.State)
}

func TestRenderDetailResolvedIsFrozen(t *testing.T) {
	inc := openIncident()
	inc.Status = tracker.StatusResolved
	inc.Resolution = "Raised the pool ceiling and fixed the leak in the retry path"

	d := RenderDetail(inc, true)

	assert.False(t, d.Affordances.CanEditSeverity)
	assert.False(t, d.Affordances.CanEditStatus)
	assert.False(t, d.Affordances.CanAssign)
	assert.False(t, d.Affordances.CanResolve)
	assert.True(t, d.Affordances.CanDelete)
	assert.True(t, d.Affordances.ShowResolution)
	assert.Equal(t, inc.Resolution, d.Resolution)
	assert.Empty(t, d.StatusOptions)
}

func TestRenderDetailResolvedWithoutResolutionText(t *testing.T) {
	inc := openIncident()
	inc.Status = tracker.StatusResolved

	d := RenderDetail(inc, true)

	// Still frozen, but there is nothing to view.
	assert.False(t, d.Affordances.CanEditStatus)
	assert.False(t, d.Affordances.ShowResolution)
	assert.Empty(t, d.Resolution)
}

func TestRenderDetailResolutionHiddenUntilResolved(t *testing.T) {
	inc := openIncident()
	inc.Resolution = "draft text that leaked into the record"

	d := RenderDetail(inc, true)
	assert.False(t, d.Affordances.ShowResolution)
	assert.Empty(t, d.Resolution)
}

func TestRenderDetailNonAdmin(t *testing.T) {
	d := RenderDetail(openIncident(), false)

	assert.False(t, d.Affordances.CanEditSeverity)
	assert.False(t, d.Affordances.CanEditStatus)
	assert.False(t, d.Affordances.CanAssign)
	assert.False(t, d.Affordances.CanResolve)
	assert.False(t, d.Affordances.CanDelete)
	assert.True(t, d.Affordances.CanComment)
}

func TestRenderDetailClosedIsReadOnly(t *testing.T) {
	inc := openIncident()
	inc.Status = tracker.StatusClosed

	d := RenderDetail(inc, true)
	assert.False(t, d.Affordances.CanEditStatus)
	assert.False(t, d.Affordances.CanAssign)
	assert.False(t, d.Affordances.ShowResolution)
}

func TestRenderDetailAssignmentNames(t *testing.T) {
	inc := openIncident()
	inc.AssignedTeam = &tracker.TeamRef{ID: 2, Name: "Platform"}
	inc.AssignedAdmin = &tracker.AdminRef{ID: 7, Username: "casey"}

	d := RenderDetail(inc, true)
	assert.Equal(t, "Platform", d.AssignedTeam)
	assert.Equal(t, "casey", d.AssignedAdmin)
	assert.Equal(t, string(StateTeamAndAdmin), d.State)
}

func TestRenderMatchesSortedAndFormatted(t *testing.T) {
	lines := RenderMatches([]tracker.MatchResult{
		{IncidentNumber: "INC-2024-0002", Title: "Pool exhaustion on deploy", MatchPercentage: 41.5},
		{IncidentNumber: "INC-2024-0009", Title: "Connections never released", MatchPercentage: 87.25},
		{IncidentNumber: "INC-2024-0004", Title: "Slow queries after deploy", MatchPercentage: 60},
	})

	assert.Equal(t, []string{
		"Incident INC-2024-0009 - Connections never released (87.25% match)",
		"Incident INC-2024-0004 - Slow queries after deploy (60.00% match)",
		"Incident INC-2024-0002 - Pool exhaustion on deploy (41.50% match)",
	}, lines)
}

func TestRenderPageMarksExpandedRows(t *testing.T) {
	incidents := []tracker.Incident{*openIncident()}
	incidents[0].ID = 5

	rows := RenderPage(incidents, func(id int64) bool { return id == 5 })
	assert.True(t, rows[0].Expanded)
	assert.Equal(t, "March 21st, 14:30", rows[0].SubmittedAt)
}
