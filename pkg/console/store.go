// Package console implements the stateful incident console: the client-held
// incident cache and view state, the team/admin assignment cascade, the pure
// row renderer, and the comment panel, plus the MCP tools that expose them.
package console

import (
	"context"
	"fmt"
	"sort"

	"github.com/inctrack/console-mcp-server/pkg/tracker"
)

// PageSize is the fixed number of incidents per page.
const PageSize = 10

// SourceKind identifies which backend listing the store was last loaded from.
type SourceKind string

const (
	// SourceAll is the admin listing, optionally narrowed by a filter.
	SourceAll SourceKind = "all"
	// SourceMine is the requester-scoped listing, newest first.
	SourceMine SourceKind = "mine"
)

// Source describes one of the store's load sources. Filter is meaningful for
// SourceAll only.
type Source struct {
	Kind   SourceKind
	Filter tracker.IncidentFilter
}

// IncidentStore holds the authoritative client-side incident cache together
// with the ephemeral view state (current page, expanded rows, last filter).
//
// The store is deliberately pessimistic about mutations: it never patches an
// incident in memory. Callers mutate through the tracker client and then
// Reload the same source, trading one round trip for a cache that can never
// drift from server truth.
type IncidentStore struct {
	client *tracker.Client

	incidents []tracker.Incident
	source    Source
	loaded    bool

	currentPage int
	expanded    map[int64]bool
}

// NewIncidentStore creates an empty store backed by client.
func NewIncidentStore(client *tracker.Client) *IncidentStore {
	return &IncidentStore{
		client:      client,
		currentPage: 1,
		expanded:    make(map[int64]bool),
	}
}

// Load replaces the collection from the given source, resets the current page
// to 1 and collapses all rows. On any error the previous collection and view
// state are left untouched.
func (s *IncidentStore) Load(ctx context.Context, src Source) error {
	incidents, err := s.fetch(ctx, src)
	if err != nil {
		return err
	}

	s.incidents = incidents
	s.source = src
	s.loaded = true
	s.currentPage = 1
	s.expanded = make(map[int64]bool)
	return nil
}

// Reload re-runs the last active source. It is the step that follows every
// successful mutation.
func (s *IncidentStore) Reload(ctx context.Context) error {
	if !s.loaded {
		return fmt.Errorf("store has not been loaded yet")
	}
	return s.Load(ctx, s.source)
}

func (s *IncidentStore) fetch(ctx context.Context, src Source) ([]tracker.Incident, error) {
	switch src.Kind {
	case SourceAll:
		return s.client.ListIncidents(ctx, src.Filter)
	case SourceMine:
		incidents, err := s.client.ListMyIncidents(ctx)
		if err != nil {
			return nil, err
		}
		// Users see their own incidents newest first; the admin listing
		// keeps server order verbatim.
		sort.SliceStable(incidents, func(i, j int) bool {
			ti, tj := incidents[i].CreatedAt, incidents[j].CreatedAt
			switch {
			case ti == nil:
				return false
			case tj == nil:
				return true
			default:
				return ti.After(*tj)
			}
		})
		return incidents, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", src.Kind)
	}
}

// Source returns the last active source.
func (s *IncidentStore) Source() Source {
	return s.source
}

// Count returns the size of the current collection.
func (s *IncidentStore) Count() int {
	return len(s.incidents)
}

// TotalPages returns ceil(count/PageSize), never less than 1.
func (s *IncidentStore) TotalPages() int {
	pages := (len(s.incidents) + PageSize - 1) / PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// clampPage clamps n into [1, TotalPages()].
func (s *IncidentStore) clampPage(n int) int {
	if n < 1 {
		return 1
	}
	if max := s.TotalPages(); n > max {
		return max
	}
	return n
}

// SetPage moves the current page, clamping out-of-range values, and returns
// the page actually selected.
func (s *IncidentStore) SetPage(n int) int {
	s.currentPage = s.clampPage(n)
	return s.currentPage
}

// CurrentPage returns the 1-based current page.
func (s *IncidentStore) CurrentPage() int {
	return s.currentPage
}

// Page returns the slice of incidents on page n in collection order.
// Out-of-range n is clamped.
func (s *IncidentStore) Page(n int) []tracker.Incident {
	n = s.clampPage(n)
	start := (n - 1) * PageSize
	if start >= len(s.incidents) {
		return nil
	}
	end := start + PageSize
	if end > len(s.incidents) {
		end = len(s.incidents)
	}
	return s.incidents[start:end]
}

// Get looks up an incident by id in the current collection.
func (s *IncidentStore) Get(id int64) (*tracker.Incident, bool) {
	for i := range s.incidents {
		if s.incidents[i].ID == id {
			return &s.incidents[i], true
		}
	}
	return nil, false
}

// Expand marks a row expanded. Expansion is a pure view-state toggle; it
// never refetches the list.
func (s *IncidentStore) Expand(id int64) {
	s.expanded[id] = true
}

// Collapse removes a row from the expanded set.
func (s *IncidentStore) Collapse(id int64) {
	delete(s.expanded, id)
}

// IsExpanded reports whether the row is expanded.
func (s *IncidentStore) IsExpanded(id int64) bool {
	return s.expanded[id]
}
