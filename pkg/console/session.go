package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/inctrack/console-mcp-server/pkg/tracker"
)

// ErrEmptyResolution rejects resolutions that are empty after trimming.
var ErrEmptyResolution = errors.New("resolution must not be empty")

// Session is one user's console: the incident store, the assignment cascade,
// the comment panel and the team directory, bound to one authenticated
// tracker client. All operations serialize on the session mutex; the MCP
// layer may deliver tool calls concurrently.
type Session struct {
	mu sync.Mutex

	client      *tracker.Client
	store       *IncidentStore
	assignments *AssignmentController
	comments    *CommentsPanel
	teams       *TeamDirectory
	validator   *SubmissionValidator

	user *tracker.UserInfo
}

// NewSession creates a console session over client.
func NewSession(client *tracker.Client) *Session {
	return &Session{
		client:      client,
		store:       NewIncidentStore(client),
		assignments: NewAssignmentController(client),
		comments:    NewCommentsPanel(client),
		teams:       NewTeamDirectory(client),
		validator:   NewSubmissionValidator(),
	}
}

// Listing is a rendered page of the incident collection.
type Listing struct {
	Rows        []Row `json:"rows"`
	Page        int   `json:"page"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int   `json:"total_count"`
	MineListing bool  `json:"mine_listing"`
}

func (s *Session) listingLocked() Listing {
	page := s.store.CurrentPage()
	return Listing{
		Rows:        RenderPage(s.store.Page(page), s.store.IsExpanded),
		Page:        page,
		TotalPages:  s.store.TotalPages(),
		TotalCount:  s.store.Count(),
		MineListing: s.store.Source().Kind == SourceMine,
	}
}

// LoadAll loads the admin listing, optionally filtered, and returns page 1.
func (s *Session) LoadAll(ctx context.Context, filter tracker.IncidentFilter) (Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Load(ctx, Source{Kind: SourceAll, Filter: filter}); err != nil {
		return Listing{}, err
	}
	return s.listingLocked(), nil
}

// LoadMine loads the requester-scoped listing and returns page 1.
func (s *Session) LoadMine(ctx context.Context) (Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Load(ctx, Source{Kind: SourceMine}); err != nil {
		return Listing{}, err
	}
	return s.listingLocked(), nil
}

// Search parses a free-text query (INC-prefixed input becomes an exact
// number lookup), loads the matching listing and returns page 1.
func (s *Session) Search(ctx context.Context, query string) (Listing, error) {
	filter, err := ParseListQuery(query)
	if err != nil {
		return Listing{}, err
	}
	return s.LoadAll(ctx, filter)
}

// GoToPage moves to page n, clamped into range, and returns that page.
func (s *Session) GoToPage(n int) Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetPage(n)
	return s.listingLocked()
}

// CurrentListing re-renders the current page from cached state without any
// backend traffic.
func (s *Session) CurrentListing() Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listingLocked()
}

// Expanded is everything an expanded row shows: the detail fields, the
// freshly fetched comment thread, the team picker and the admin roster.
type Expanded struct {
	Detail   Detail            `json:"detail"`
	Comments []tracker.Comment `json:"comments"`
	Teams    []string          `json:"team_options,omitempty"`
	Roster   Roster            `json:"admin_roster"`
}

func (s *Session) incidentLocked(incidentID int64) (*tracker.Incident, error) {
	inc, ok := s.store.Get(incidentID)
	if !ok {
		return nil, fmt.Errorf("incident %d is not in the current listing, refresh first", incidentID)
	}
	return inc, nil
}

// ExpandRow expands an incident row. Expansion triggers the lazy fetches the
// collapsed listing avoids: the comment thread always, the team options and
// the assigned team's admin roster when the viewer can assign.
func (s *Session) ExpandRow(ctx context.Context, incidentID int64) (Expanded, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inc, err := s.incidentLocked(incidentID)
	if err != nil {
		return Expanded{}, err
	}

	admin, err := s.isAdminLocked(ctx)
	if err != nil {
		return Expanded{}, err
	}
	detail := RenderDetail(inc, admin)

	comments, err := s.comments.Open(ctx, incidentID)
	if err != nil {
		return Expanded{}, err
	}

	out := Expanded{Detail: detail, Comments: comments}

	if detail.Affordances.CanAssign {
		teams, err := s.teams.Teams(ctx)
		if err != nil {
			return Expanded{}, err
		}
		out.Teams = append(out.Teams, unassignedLabel)
		for _, t := range teams {
			out.Teams = append(out.Teams, t.Name)
		}

		if inc.AssignedTeam != nil {
			admins, err := s.client.AdminsByTeam(ctx, inc.AssignedTeam.ID)
			if err != nil {
				return Expanded{}, fmt.Errorf("failed to load admins of team %s: %w", inc.AssignedTeam.Name, err)
			}
			out.Roster = Roster{Enabled: true, Admins: admins}
		}
	}

	s.store.Expand(incidentID)
	return out, nil
}

// CollapseRow collapses an incident row.
func (s *Session) CollapseRow(incidentID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Collapse(incidentID)
}

// reloadLocked refreshes the collection after a successful mutation. The
// mutation stood; a failed reload is reported as such so the caller knows the
// cache, not the change, is stale.
func (s *Session) reloadLocked(ctx context.Context) (Listing, error) {
	if err := s.store.Reload(ctx); err != nil {
		return Listing{}, fmt.Errorf("change saved, but refreshing the listing failed: %w", err)
	}
	return s.listingLocked(), nil
}

// SetSeverity updates an incident's severity and reloads the listing.
func (s *Session) SetSeverity(ctx context.Context, incidentID int64, severity string) (Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.client.UpdateSeverity(ctx, incidentID, severity); err != nil {
		return Listing{}, err
	}
	return s.reloadLocked(ctx)
}

// SetStatus updates an incident's status and reloads the listing.
func (s *Session) SetStatus(ctx context.Context, incidentID int64, status string) (Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.client.UpdateStatus(ctx, incidentID, status); err != nil {
		return Listing{}, err
	}
	return s.reloadLocked(ctx)
}

// AssignTeam runs the team half of the cascade and reloads the listing.
// A nil teamID unassigns team and admin both.
func (s *Session) AssignTeam(ctx context.Context, incidentID int64, teamID *int64) (Roster, Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roster, err := s.assignments.SelectTeam(ctx, incidentID, teamID)
	if err != nil {
		return Roster{}, Listing{}, err
	}
	listing, err := s.reloadLocked(ctx)
	return roster, listing, err
}

// AssignAdmin runs the admin half of the cascade and reloads the listing.
func (s *Session) AssignAdmin(ctx context.Context, incidentID int64, adminID *int64) (Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.assignments.SelectAdmin(ctx, incidentID, adminID); err != nil {
		return Listing{}, err
	}
	return s.reloadLocked(ctx)
}

// ResolveIncident resolves an incident with the given resolution text and
// reloads the listing. Blank resolutions are rejected before any request.
func (s *Session) ResolveIncident(ctx context.Context, incidentID int64, resolution string) (Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resolution = strings.TrimSpace(resolution)
	if resolution == "" {
		return Listing{}, ErrEmptyResolution
	}
	if err := s.client.Resolve(ctx, incidentID, resolution); err != nil {
		return Listing{}, err
	}
	return s.reloadLocked(ctx)
}

// DeleteIncident deletes an incident and reloads the listing. When the
// backend rejects the delete the collection is left exactly as it was.
func (s *Session) DeleteIncident(ctx context.Context, incidentID int64) (Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.client.DeleteIncident(ctx, incidentID); err != nil {
		return Listing{}, err
	}
	s.assignments.Forget(incidentID)
	s.store.Collapse(incidentID)
	return s.reloadLocked(ctx)
}

// ReportIncident validates a submission, creates the incident and returns
// the backend's message. Validation failures never reach the backend.
func (s *Session) ReportIncident(ctx context.Context, sub Submission) (string, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, problems := s.validator.Check(sub)
	if len(problems) > 0 {
		return "", problems, nil
	}

	user, err := s.currentUserLocked(ctx)
	if err != nil {
		return "", nil, err
	}

	msg, err := s.client.CreateIncident(ctx, tracker.NewIncident{
		Title:         sub.Title,
		Description:   sub.Description,
		SeverityLevel: sub.SeverityLevel,
		CreatedBy:     user.Username,
	})
	if err != nil {
		return "", nil, err
	}

	if s.store.Source().Kind == SourceMine {
		if err := s.store.Reload(ctx); err != nil {
			return msg, nil, fmt.Errorf("incident created, but refreshing the listing failed: %w", err)
		}
	}
	return msg, nil, nil
}

// AddComment posts a comment and returns the refetched thread.
func (s *Session) AddComment(ctx context.Context, incidentID int64, content string) ([]tracker.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comments.Post(ctx, incidentID, content)
}

// OpenComments returns the current thread of an incident.
func (s *Session) OpenComments(ctx context.Context, incidentID int64) ([]tracker.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comments.Open(ctx, incidentID)
}

// FindSimilar runs duplicate detection for an incident number.
func (s *Session) FindSimilar(ctx context.Context, incidentNumber string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SimilaritySearch(ctx, s.client, incidentNumber)
}

// TeamOptions returns the team picker entries, "Unassigned" first.
func (s *Session) TeamOptions(ctx context.Context) ([]tracker.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teams.Teams(ctx)
}

func (s *Session) currentUserLocked(ctx context.Context) (*tracker.UserInfo, error) {
	if s.user != nil {
		return s.user, nil
	}
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current user: %w", err)
	}
	s.user = user
	return user, nil
}

func (s *Session) isAdminLocked(ctx context.Context) (bool, error) {
	user, err := s.currentUserLocked(ctx)
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

// CurrentUser returns the authenticated user, cached after the first call.
func (s *Session) CurrentUser(ctx context.Context) (*tracker.UserInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentUserLocked(ctx)
}

// SetUserAgent updates the User-Agent of outgoing tracker requests.
func (s *Session) SetUserAgent(userAgent string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client.SetUserAgent(userAgent)
}

// Logout ends the backend session and drops the cached identity.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.client.Logout(ctx); err != nil {
		return err
	}
	s.user = nil
	return nil
}
