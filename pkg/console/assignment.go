package console

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/inctrack/console-mcp-server/pkg/tracker"
)

// ErrStaleRoster is returned when an admin roster response arrives after a
// newer team selection has already superseded it. The response is discarded
// and the roster kept by the controller belongs to the newer selection.
var ErrStaleRoster = errors.New("admin roster response superseded by a newer team selection")

// AssignmentState names the three stages of the assignment cascade.
type AssignmentState string

const (
	// StateUnassigned: no team, no admin.
	StateUnassigned AssignmentState = "unassigned"
	// StateTeamOnly: team chosen, admin picker armed but empty.
	StateTeamOnly AssignmentState = "team_only"
	// StateTeamAndAdmin: both chosen.
	StateTeamAndAdmin AssignmentState = "team_and_admin"
)

// StateOf derives the cascade stage from an incident's assignment fields.
// An admin without a team cannot occur; the cascade never produces it.
func StateOf(inc *tracker.Incident) AssignmentState {
	switch {
	case inc.AssignedTeam == nil:
		return StateUnassigned
	case inc.AssignedAdmin == nil:
		return StateTeamOnly
	default:
		return StateTeamAndAdmin
	}
}

// Roster is the admin picker belonging to one incident's assigned team.
// Enabled is false while no team is selected or while a roster fetch has not
// yet succeeded for the current selection.
type Roster struct {
	Enabled bool               `json:"enabled"`
	Admins  []tracker.AdminRef `json:"admins,omitempty"`
}

// rosterSlot tracks the roster and its selection generation for one incident.
type rosterSlot struct {
	gen    uint64
	roster Roster
}

// AssignmentController drives the team → admin assignment cascade.
//
// Every team selection persists immediately and unconditionally clears the
// admin assignment, even when the same team is re-selected: re-picking a team
// is an explicit request to restart the admin choice. Roster fetches are
// guarded by a per-incident generation counter so that a slow response for an
// old selection can never overwrite the roster of a newer one.
type AssignmentController struct {
	client *tracker.Client

	mu    sync.Mutex
	slots map[int64]*rosterSlot
}

// NewAssignmentController creates a controller backed by client.
func NewAssignmentController(client *tracker.Client) *AssignmentController {
	return &AssignmentController{
		client: client,
		slots:  make(map[int64]*rosterSlot),
	}
}

// Roster returns the current admin picker state for the incident.
func (a *AssignmentController) Roster(incidentID int64) Roster {
	a.mu.Lock()
	defer a.mu.Unlock()
	if slot, ok := a.slots[incidentID]; ok {
		return slot.roster
	}
	return Roster{}
}

// bump invalidates any in-flight roster fetch for the incident, disables the
// picker and returns the new generation.
func (a *AssignmentController) bump(incidentID int64) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	slot, ok := a.slots[incidentID]
	if !ok {
		slot = &rosterSlot{}
		a.slots[incidentID] = slot
	}
	slot.gen++
	slot.roster = Roster{}
	return slot.gen
}

// install publishes a fetched roster, unless a newer selection has bumped the
// generation in the meantime.
func (a *AssignmentController) install(incidentID int64, gen uint64, admins []tracker.AdminRef) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	slot, ok := a.slots[incidentID]
	if !ok || slot.gen != gen {
		return ErrStaleRoster
	}
	slot.roster = Roster{Enabled: true, Admins: admins}
	return nil
}

// SelectTeam assigns teamID to the incident (nil clears the assignment). The
// admin assignment is always reset server-side as part of the same request,
// and the local roster is rebuilt from the new team's admins.
//
// The team assignment and the roster fetch are separate requests: when the
// assignment succeeds but the roster fetch fails, the team change stands and
// the picker stays disabled until the next selection.
func (a *AssignmentController) SelectTeam(ctx context.Context, incidentID int64, teamID *int64) (Roster, error) {
	gen := a.bump(incidentID)

	if err := a.client.AssignTeam(ctx, incidentID, teamID); err != nil {
		return Roster{}, fmt.Errorf("failed to assign team: %w", err)
	}

	if teamID == nil {
		return Roster{}, nil
	}

	admins, err := a.client.AdminsByTeam(ctx, *teamID)
	if err != nil {
		return Roster{}, fmt.Errorf("team assigned, but loading its admins failed: %w", err)
	}
	if err := a.install(incidentID, gen, admins); err != nil {
		return Roster{}, err
	}
	return Roster{Enabled: true, Admins: admins}, nil
}

// SelectAdmin assigns adminID to the incident (nil clears it). Membership of
// the admin in the assigned team is enforced by the backend.
func (a *AssignmentController) SelectAdmin(ctx context.Context, incidentID int64, adminID *int64) error {
	if err := a.client.AssignAdmin(ctx, incidentID, adminID); err != nil {
		return fmt.Errorf("failed to assign admin: %w", err)
	}
	return nil
}

// Forget drops the roster state of an incident, typically after the incident
// left the collection.
func (a *AssignmentController) Forget(incidentID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.slots, incidentID)
}
