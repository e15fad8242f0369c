package enrich

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapFeedListings(t *testing.T) {
	raw := []byte(`{
		"listings": [
			{
				"id": "mls-1",
				"status": "active",
				"propertyType": "single_family",
				"price": 650000,
				"beds": 3,
				"baths": 2,
				"sqft": 1800,
				"street": "12 Rowland Rd",
				"city": "Fairfield",
				"state": "CT",
				"zip": "06824",
				"neighborhood": "Greenfield Hill",
				"lat": 41.17,
				"lng": -73.27,
				"listedAt": "2025-05-01T00:00:00Z",
				"updatedAt": "2025-05-10T00:00:00Z"
			},
			{"id": "", "status": "active", "price": 100000},
			{"id": "mls-2", "status": "active", "price": 0},
			{"id": "mls-3", "status": "withdrawn", "price": 100000},
			{"id": "mls-4", "status": "sold", "price": 100000, "beds": -1},
			{"id": "mls-5", "status": "pending", "price": 420000, "lat": 41.1}
		]
	}`)

	got, err := MapFeedListings(raw)
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	require.Equal(t, "mls-1", first.ID)
	require.Equal(t, "greenfield-hill", first.Address.NeighborhoodSlug)
	require.NotNil(t, first.Coords)
	require.Equal(t, 41.17, first.Coords.Lat)

	// lat without lng drops the coordinates, not the record
	partial := got[1]
	require.Equal(t, "mls-5", partial.ID)
	require.Nil(t, partial.Coords)
}

func TestMapFeedListingsBadPayload(t *testing.T) {
	_, err := MapFeedListings([]byte(`{"listings": "nope"`))
	require.Error(t, err)
}
