package tracker

import (
	"context"
	"fmt"
)

// ListTeams returns the canonical team enumeration. The console resolves
// every team id through this list rather than a hard-coded table.
func (c *Client) ListTeams(ctx context.Context) ([]Team, error) {
	resp, err := c.makeRequest(ctx, "GET", "/teams", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	var teams []Team
	if err := parseResponse(resp, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// AdminsByTeam returns the admin roster of a team. Rosters are small and may
// change between calls, so callers re-fetch instead of caching.
func (c *Client) AdminsByTeam(ctx context.Context, teamID int64) ([]AdminRef, error) {
	resp, err := c.makeRequest(ctx, "GET", fmt.Sprintf("/admins/by-team/%d", teamID), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins for team %d: %w", teamID, err)
	}

	var admins []AdminRef
	if err := parseResponse(resp, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}
