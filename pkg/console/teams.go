package console

import (
	"context"
	"fmt"
	"time"

	"github.com/bluele/gcache"

	"github.com/inctrack/console-mcp-server/pkg/tracker"
)

const (
	teamCacheKey = "teams"
	teamCacheTTL = 5 * time.Minute
)

// TeamDirectory serves the team picker. The team list is server-sourced and
// changes rarely, so it is cached with a short TTL rather than refetched on
// every expanded row.
type TeamDirectory struct {
	client *tracker.Client
	cache  gcache.Cache
}

// NewTeamDirectory creates a directory backed by client.
func NewTeamDirectory(client *tracker.Client) *TeamDirectory {
	return &TeamDirectory{
		client: client,
		cache:  gcache.New(1).LRU().Expiration(teamCacheTTL).Build(),
	}
}

// Teams returns all teams, from cache when fresh.
func (d *TeamDirectory) Teams(ctx context.Context) ([]tracker.Team, error) {
	if cached, err := d.cache.Get(teamCacheKey); err == nil {
		if teams, ok := cached.([]tracker.Team); ok {
			return teams, nil
		}
	}

	teams, err := d.client.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	_ = d.cache.Set(teamCacheKey, teams)
	return teams, nil
}

// TeamByName resolves a team by its display name.
func (d *TeamDirectory) TeamByName(ctx context.Context, name string) (*tracker.Team, error) {
	teams, err := d.Teams(ctx)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		if teams[i].Name == name {
			return &teams[i], nil
		}
	}
	return nil, fmt.Errorf("no team named %q", name)
}

// Invalidate drops the cached list; the next Teams call refetches.
func (d *TeamDirectory) Invalidate() {
	d.cache.Remove(teamCacheKey)
}
