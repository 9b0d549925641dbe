package tracker

import "time"

// Incident statuses as the backend reports them. "Closed" survives in legacy
// rows; the console reads it but never writes it.
const (
	StatusOpen     = "Open"
	StatusOngoing  = "Ongoing"
	StatusResolved = "Resolved"
	StatusClosed   = "Closed"
)

// Severity levels.
const (
	SeverityLow    = "Low"
	SeverityMedium = "Medium"
	SeverityHigh   = "High"
)

// TeamRef is the team reference embedded in an incident.
type TeamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AdminRef is the admin reference embedded in an incident.
type AdminRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Incident is a tracked incident as served by the backend. ID and
// IncidentNumber are server-assigned and immutable; Resolution is set only
// once the incident is resolved.
type Incident struct {
	ID             int64      `json:"id"`
	IncidentNumber string     `json:"incidentNumber"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	SeverityLevel  string     `json:"severityLevel"`
	Status         string     `json:"status"`
	CreatedBy      string     `json:"createdBy"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	Resolution     string     `json:"resolution,omitempty"`
	AssignedTeam   *TeamRef   `json:"assignedTeam,omitempty"`
	AssignedAdmin  *AdminRef  `json:"assignedAdmin,omitempty"`
}

// Resolved reports whether the incident has reached its terminal state.
func (i *Incident) Resolved() bool {
	return i.Status == StatusResolved
}

// Comment is an append-only note on an incident.
type Comment struct {
	ID        int64      `json:"id"`
	Content   string     `json:"content"`
	CreatedBy string     `json:"createdBy"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Team is an entry of the server-sourced team enumeration.
type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserInfo is the authenticated user as reported by /users/role.
type UserInfo struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the user holds the admin role.
func (u UserInfo) IsAdmin() bool {
	return u.Role == "ROLE_ADMIN"
}

// MatchResult is one similarity-search hit. MatchPercentage is
// server-computed and used only for display ordering.
type MatchResult struct {
	IncidentNumber        string  `json:"incidentNumber"`
	Title                 string  `json:"title"`
	Description           string  `json:"description,omitempty"`
	SeverityLevel         string  `json:"severityLevel,omitempty"`
	Status                string  `json:"status"`
	AssignedTeamName      string  `json:"assignedTeamName,omitempty"`
	AssignedAdminUsername string  `json:"assignedAdminUsername,omitempty"`
	MatchPercentage       float64 `json:"matchPercentage"`
	Resolution            string  `json:"resolution,omitempty"`
}

// IncidentFilter narrows the admin incident listing. Zero values are omitted
// from the query string.
type IncidentFilter struct {
	Status         string `url:"status,omitempty"`
	TeamID         int64  `url:"teamId,omitempty"`
	Keyword        string `url:"keyword,omitempty"`
	IncidentNumber string `url:"incidentNumber,omitempty"`
}

// IsZero reports whether the filter narrows nothing.
func (f IncidentFilter) IsZero() bool {
	return f == IncidentFilter{}
}

// NewIncident is the payload for creating an incident.
type NewIncident struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	SeverityLevel string `json:"severityLevel"`
	CreatedBy     string `json:"createdBy"`
}
