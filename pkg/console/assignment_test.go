package console

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inctrack/console-mcp-server/pkg/tracker"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func TestStateOf(t *testing.T) {
	inc := &tracker.Incident{}
	assert.Equal(t, StateUnassigned, StateOf(inc))

	inc.AssignedTeam = &tracker.TeamRef{ID: 1, Name: "Platform"}
	assert.Equal(t, StateTeamOnly, StateOf(inc))

	inc.AssignedAdmin = &tracker.AdminRef{ID: 7, Username: "casey"}
	assert.Equal(t, StateTeamAndAdmin, StateOf(inc))
}

func TestSelectTeamLoadsRoster(t *testing.T) {
	server, backend := testServer(t, map[string]interface{}{
		"PUT /incidents/1/assign": "Incident successfully updated!",
		"GET /admins/by-team/2": []interface{}{
			map[string]interface{}{"id": 7, "username": "casey"},
			map[string]interface{}{"id": 9, "username": "sam"},
		},
	})
	client, err := tracker.NewClient(server.URL, "", "test-agent")
	require.NoError(t, err)

	ctrl := NewAssignmentController(client)
	roster, err := ctrl.SelectTeam(context.Background(), 1, int64Ptr(2))
	require.NoError(t, err)

	assert.True(t, roster.Enabled)
	require.Len(t, roster.Admins, 2)
	assert.Equal(t, "casey", roster.Admins[0].Username)
	assert.Equal(t, 1, backend.hitCount("PUT /incidents/1/assign"))
	assert.Equal(t, 1, backend.hitCount("GET /admins/by-team/2"))

	// The controller keeps the roster for later reads.
	assert.True(t, ctrl.Roster(1).Enabled)
}

func TestSelectTeamReselectAlwaysResends(t *testing.T) {
	server, backend := testServer(t, map[string]interface{}{
		"PUT /incidents/1/assign": "Incident successfully updated!",
		"GET /admins/by-team/2": []interface{}{
			map[string]interface{}{"id": 7, "username": "casey"},
		},
	})
	client, err := tracker.NewClient(server.URL, "", "test-agent")
	require.NoError(t, err)

	ctrl := NewAssignmentController(client)
	for i := 0; i < 2; i++ {
		_, err := ctrl.SelectTeam(context.Background(), 1, int64Ptr(2))
		require.NoError(t, err)
	}

	// Picking the team already assigned is not a no-op: the mutation (which
	// nulls the admin) and the roster fetch both run again.
	assert.Equal(t, 2, backend.hitCount("PUT /incidents/1/assign"))
	assert.Equal(t, 2, backend.hitCount("GET /admins/by-team/2"))
}

func TestSelectTeamUnassignDisablesRoster(t *testing.T) {
	server, backend := testServer(t, map[string]interface{}{
		"PUT /incidents/1/assign": "Incident successfully updated!",
	})
	client, err := tracker.NewClient(server.URL, "", "test-agent")
	require.NoError(t, err)

	ctrl := NewAssignmentController(client)
	roster, err := ctrl.SelectTeam(context.Background(), 1, nil)
	require.NoError(t, err)

	assert.False(t, roster.Enabled)
	assert.Empty(t, roster.Admins)
	assert.Equal(t, 1, backend.hitCount("PUT /incidents/1/assign"))
	// Unassigning must not hit any roster endpoint.
	assert.Equal(t, 0, backend.hitCount("GET /admins/by-team/2"))
}

func TestSelectTeamRosterFetchFailureLeavesPickerDisabled(t *testing.T) {
	server, _ := testServer(t, map[string]interface{}{
		"PUT /incidents/1/assign":     "Incident successfully updated!",
		"error:GET /admins/by-team/2": "boom",
	})
	client, err := tracker.NewClient(server.URL, "", "test-agent")
	require.NoError(t, err)

	ctrl := NewAssignmentController(client)
	_, err = ctrl.SelectTeam(context.Background(), 1, int64Ptr(2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "team assigned")

	assert.False(t, ctrl.Roster(1).Enabled)
}

func TestStaleRosterResponseIsDiscarded(t *testing.T) {
	ctrl := NewAssignmentController(nil)

	// First selection starts, then a second selection supersedes it before
	// the first roster response lands.
	gen := ctrl.bump(1)
	ctrl.bump(1)

	err := ctrl.install(1, gen, []tracker.AdminRef{{ID: 7, Username: "casey"}})
	assert.ErrorIs(t, err, ErrStaleRoster)
	assert.False(t, ctrl.Roster(1).Enabled)

	// The response belonging to the latest selection still installs.
	latest := ctrl.bump(1)
	require.NoError(t, ctrl.install(1, latest, []tracker.AdminRef{{ID: 9, Username: "sam"}}))
	roster := ctrl.Roster(1)
	assert.True(t, roster.Enabled)
	require.Len(t, roster.Admins, 1)
	assert.Equal(t, "sam", roster.Admins[0].Username)
}

func TestRostersAreIndependentPerIncident(t *testing.T) {
	ctrl := NewAssignmentController(nil)

	genA := ctrl.bump(1)
	genB := ctrl.bump(2)
	require.NoError(t, ctrl.install(1, genA, []tracker.AdminRef{{ID: 7, Username: "casey"}}))
	require.NoError(t, ctrl.install(2, genB, []tracker.AdminRef{{ID: 9, Username: "sam"}}))

	assert.Equal(t, "casey", ctrl.Roster(1).Admins[0].Username)
	assert.Equal(t, "sam", ctrl.Roster(2).Admins[0].Username)

	ctrl.Forget(1)
	assert.False(t, ctrl.Roster(1).Enabled)
	assert.True(t, ctrl.Roster(2).Enabled)
}
