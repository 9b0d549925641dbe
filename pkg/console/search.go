package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/inctrack/console-mcp-server/pkg/tracker"
)

// ErrEmptyQuery rejects blank search input without a backend round trip.
var ErrEmptyQuery = errors.New("search query must not be empty")

// incidentNumberPrefix routes a query to the exact-number lookup.
const incidentNumberPrefix = "INC"

// ParseListQuery turns free-text search input into a listing filter.
// Input starting with "INC" (any case) is treated as an exact incident
// number; anything else becomes a keyword search. Blank input is an error.
func ParseListQuery(input string) (tracker.IncidentFilter, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return tracker.IncidentFilter{}, ErrEmptyQuery
	}

	if strings.HasPrefix(strings.ToUpper(trimmed), incidentNumberPrefix) {
		return tracker.IncidentFilter{IncidentNumber: strings.ToUpper(trimmed)}, nil
	}
	return tracker.IncidentFilter{Keyword: trimmed}, nil
}

// SimilaritySearch runs the duplicate-detection search for an incident number
// and returns formatted matches, strongest first.
func SimilaritySearch(ctx context.Context, client *tracker.Client, incidentNumber string) ([]string, error) {
	trimmed := strings.TrimSpace(incidentNumber)
	if trimmed == "" {
		return nil, ErrEmptyQuery
	}

	matches, err := client.SearchSimilar(ctx, trimmed)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}
	return RenderMatches(matches), nil
}
