package console

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePagination(t *testing.T) {
	session, _ := testSession(t, map[string]interface{}{
		"GET /incidents": incidentFixtures(35),
	})

	listing, err := session.LoadAll(context.Background(), filterNone())
	require.NoError(t, err)

	assert.Equal(t, 1, listing.Page)
	assert.Equal(t, 4, listing.TotalPages)
	assert.Equal(t, 35, listing.TotalCount)
	assert.Len(t, listing.Rows, 10)
	assert.Equal(t, "INC-2024-0001", listing.Rows[0].IncidentNumber)

	listing = session.GoToPage(4)
	assert.Equal(t, 4, listing.Page)
	assert.Len(t, listing.Rows, 5)
	assert.Equal(t, "INC-2024-0031", listing.Rows[0].IncidentNumber)
}

func TestStorePageClamping(t *testing.T) {
	session, _ := testSession(t, map[string]interface{}{
		"GET /incidents": incidentFixtures(35),
	})

	_, err := session.LoadAll(context.Background(), filterNone())
	require.NoError(t, err)

	assert.Equal(t, 4, session.GoToPage(99).Page)
	assert.Equal(t, 1, session.GoToPage(0).Page)
	assert.Equal(t, 1, session.GoToPage(-3).Page)
}

func TestStoreEmptyCollectionHasOnePage(t *testing.T) {
	session, _ := testSession(t, map[string]interface{}{
		"GET /incidents": []interface{}{},
	})

	listing, err := session.LoadAll(context.Background(), filterNone())
	require.NoError(t, err)

	assert.Equal(t, 1, listing.TotalPages)
	assert.Equal(t, 1, listing.Page)
	assert.Empty(t, listing.Rows)
	assert.Equal(t, 1, session.GoToPage(7).Page)
}

func TestStoreLoadFailureKeepsPreviousCollection(t *testing.T) {
	session, backend := testSession(t, map[string]interface{}{
		"GET /incidents": incidentFixtures(3),
	})

	_, err := session.LoadAll(context.Background(), filterNone())
	require.NoError(t, err)

	// Break the my-incidents endpoint; the all-incidents collection must
	// survive the failed switch.
	backend.setResponse("error:GET /incidents/my-incidents", "session expired")

	_, err = session.LoadMine(context.Background())
	require.Error(t, err)

	listing := session.CurrentListing()
	assert.Equal(t, 3, listing.TotalCount)
	assert.False(t, listing.MineListing)
}

func TestStoreMineSortedNewestFirst(t *testing.T) {
	older := incidentFixture(1, "INC-2024-0001", "Older incident")
	older["createdAt"] = "2024-01-02T08:00:00Z"
	newer := incidentFixture(2, "INC-2024-0002", "Newer incident")
	newer["createdAt"] = "2024-06-15T08:00:00Z"
	undated := incidentFixture(3, "INC-2024-0003", "Undated incident")
	delete(undated, "createdAt")

	session, _ := testSession(t, map[string]interface{}{
		"GET /incidents/my-incidents": []interface{}{older, undated, newer},
	})

	listing, err := session.LoadMine(context.Background())
	require.NoError(t, err)
	require.Len(t, listing.Rows, 3)

	assert.True(t, listing.MineListing)
	assert.Equal(t, "INC-2024-0002", listing.Rows[0].IncidentNumber)
	assert.Equal(t, "INC-2024-0001", listing.Rows[1].IncidentNumber)
	assert.Equal(t, "INC-2024-0003", listing.Rows[2].IncidentNumber)
}

func TestStoreLoadResetsPageAndExpansion(t *testing.T) {
	session, _ := testSession(t, map[string]interface{}{
		"GET /incidents": incidentFixtures(25),
	})

	_, err := session.LoadAll(context.Background(), filterNone())
	require.NoError(t, err)

	session.GoToPage(3)
	session.store.Expand(5)

	_, err = session.LoadAll(context.Background(), filterNone())
	require.NoError(t, err)

	assert.Equal(t, 1, session.CurrentListing().Page)
	assert.False(t, session.store.IsExpanded(5))
}
