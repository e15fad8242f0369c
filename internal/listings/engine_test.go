package listings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type staticSnapshot []Listing

func (s staticSnapshot) Listings(ctx context.Context) ([]Listing, error) {
	return s, nil
}

type failingSnapshot struct{}

func (failingSnapshot) Listings(ctx context.Context) ([]Listing, error) {
	return nil, errors.New("store unavailable")
}

func ptrInt(v int) *int           { return &v }
func ptrFloat(v float64) *float64 { return &v }

func day(n int) time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func coords(lat, lng float64) *Coordinates { return &Coordinates{Lat: lat, Lng: lng} }

func fixture() staticSnapshot {
	return staticSnapshot{
		{
			ID: "l1", Status: StatusActive, PropertyType: "single_family",
			Price: 850000, Beds: 4, Baths: 3, Sqft: 2800, LotAcres: ptrFloat(0.5),
			Address: Address{Street: "123 Main St", City: "Fairfield", State: "CT", Zip: "06824", NeighborhoodSlug: "southport"},
			Coords:  coords(41.14, -73.26),
			ListedAt: day(10), UpdatedAt: day(12),
		},
		{
			ID: "l2", Status: StatusActive, PropertyType: "condo",
			Price: 425000, Beds: 2, Baths: 2, Sqft: 1400,
			Address: Address{Street: "5 Main Ave", City: "Fairfield", State: "CT", Zip: "06825"},
			Coords:  coords(41.17, -73.25),
			ListedAt: day(20), UpdatedAt: day(20),
		},
		{
			ID: "l3", Status: StatusPending, PropertyType: "single_family",
			Price: 1200000, Beds: 5, Baths: 4, Sqft: 4200, LotAcres: ptrFloat(1.2),
			Address: Address{Street: "9 Harbor Rd", City: "Westport", State: "CT", Zip: "06880", NeighborhoodSlug: "compo-beach"},
			Coords:  coords(41.11, -73.36),
			ListedAt: day(5), UpdatedAt: day(25),
		},
		{
			ID: "l4", Status: StatusSold, PropertyType: "multi_family",
			Price: 650000, Beds: 6, Baths: 4, Sqft: 3200,
			Address: Address{Street: "1 Elm St", City: "Mainville", State: "CT", Zip: "06999"},
			// no coordinates
			ListedAt: day(1), UpdatedAt: day(2),
		},
		{
			ID: "l5", Status: StatusActive, PropertyType: "single_family",
			Price: 850000, Beds: 3, Baths: 2, Sqft: 2100, LotAcres: ptrFloat(0.25),
			Address: Address{Street: "77 Beach Blvd", City: "Fairfield", State: "CT", Zip: "06824", NeighborhoodSlug: "beach-area"},
			Coords:  coords(41.13, -73.24),
			ListedAt: day(15), UpdatedAt: day(15),
		},
	}
}

func search(t *testing.T, p SearchParams) SearchResult {
	t.Helper()
	res, err := NewEngine(fixture()).Search(context.Background(), p)
	require.NoError(t, err)
	return res
}

func ids(ls []Listing) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

func TestSearchScopeTown(t *testing.T) {
	res := search(t, SearchParams{Scope: ScopeTown, TownSlug: "fairfield"})
	require.Equal(t, 3, res.Total)
	require.ElementsMatch(t, []string{"l1", "l2", "l5"}, ids(res.Listings))
}

func TestSearchScopeNeighborhood(t *testing.T) {
	res := search(t, SearchParams{Scope: ScopeNeighborhood, TownSlug: "fairfield", NeighborhoodSlug: "southport"})
	require.Equal(t, []string{"l1"}, ids(res.Listings))
}

func TestSearchScopeTownIsCaseInsensitive(t *testing.T) {
	res := search(t, SearchParams{Scope: ScopeTown, TownSlug: "westport"})
	require.Equal(t, []string{"l3"}, ids(res.Listings))
}

func TestSearchGlobalAllowLists(t *testing.T) {
	res := search(t, SearchParams{Scope: ScopeGlobal, TownSlugs: []string{"fairfield", "westport"}})
	require.ElementsMatch(t, []string{"l1", "l2", "l3", "l5"}, ids(res.Listings))

	res = search(t, SearchParams{Scope: ScopeGlobal, NeighborhoodSlugs: []string{"compo-beach"}})
	require.Equal(t, []string{"l3"}, ids(res.Listings))
}

func TestSearchBoundsInclusiveEdges(t *testing.T) {
	// l1 sits exactly on the north and east edges
	b := &Bounds{North: 41.14, South: 41.0, East: -73.26, West: -73.5}
	res := search(t, SearchParams{Scope: ScopeGlobal, Bounds: b})
	require.Contains(t, ids(res.Listings), "l1")

	// nudge the east edge 0.0001 degrees away: l1 falls out
	b2 := &Bounds{North: 41.14, South: 41.0, East: -73.2601, West: -73.5}
	res = search(t, SearchParams{Scope: ScopeGlobal, Bounds: b2})
	require.NotContains(t, ids(res.Listings), "l1")
}

func TestSearchBoundsDropsUncoded(t *testing.T) {
	b := &Bounds{North: 90, South: -90, East: 180, West: -180}
	res := search(t, SearchParams{Scope: ScopeGlobal, Bounds: b})
	require.NotContains(t, ids(res.Listings), "l4")
	require.Equal(t, 4, res.Total)
}

func TestSearchFreeText(t *testing.T) {
	// street match
	res := search(t, SearchParams{Scope: ScopeGlobal, Query: "  harbor "})
	require.Equal(t, []string{"l3"}, ids(res.Listings))

	// zip match
	res = search(t, SearchParams{Scope: ScopeGlobal, Query: "06824"})
	require.ElementsMatch(t, []string{"l1", "l5"}, ids(res.Listings))

	// city match, case-insensitive
	res = search(t, SearchParams{Scope: ScopeGlobal, Query: "MAINVILLE"})
	require.Equal(t, []string{"l4"}, ids(res.Listings))
}

func TestSearchStructuredFilters(t *testing.T) {
	res := search(t, SearchParams{Scope: ScopeGlobal, Filters: Filters{
		Statuses: []Status{StatusActive},
		PriceMin: ptrInt(500000),
	}})
	require.ElementsMatch(t, []string{"l1", "l5"}, ids(res.Listings))

	res = search(t, SearchParams{Scope: ScopeGlobal, Filters: Filters{
		BedsMin:  ptrInt(4),
		BathsMin: ptrInt(3),
	}})
	require.ElementsMatch(t, []string{"l1", "l3", "l4"}, ids(res.Listings))

	res = search(t, SearchParams{Scope: ScopeGlobal, Filters: Filters{
		PropertyTypes: []string{"condo", "multi_family"},
	}})
	require.ElementsMatch(t, []string{"l2", "l4"}, ids(res.Listings))
}

func TestSearchLotAcresBoundFailsMissingValue(t *testing.T) {
	res := search(t, SearchParams{Scope: ScopeGlobal, Filters: Filters{
		LotAcresMin: ptrFloat(0.1),
	}})
	// l2 and l4 have no lot size and must be excluded
	require.ElementsMatch(t, []string{"l1", "l3", "l5"}, ids(res.Listings))
}

func TestSearchMinAboveMaxYieldsEmpty(t *testing.T) {
	res := search(t, SearchParams{Scope: ScopeGlobal, Filters: Filters{
		PriceMin: ptrInt(900000),
		PriceMax: ptrInt(100000),
	}})
	require.Equal(t, 0, res.Total)
	require.Empty(t, res.Listings)
}

func TestFilterConjunction(t *testing.T) {
	f1 := Filters{Statuses: []Status{StatusActive}}
	f2 := Filters{PriceMax: ptrInt(900000)}
	combined := Filters{Statuses: []Status{StatusActive}, PriceMax: ptrInt(900000)}

	r1 := search(t, SearchParams{Scope: ScopeGlobal, Filters: f1})
	r2 := search(t, SearchParams{Scope: ScopeGlobal, Filters: f2})
	rc := search(t, SearchParams{Scope: ScopeGlobal, Filters: combined})

	inter := map[string]bool{}
	for _, id := range ids(r1.Listings) {
		inter[id] = true
	}
	var want []string
	for _, id := range ids(r2.Listings) {
		if inter[id] {
			want = append(want, id)
		}
	}
	require.ElementsMatch(t, want, ids(rc.Listings))
}

func TestSearchSortIdempotent(t *testing.T) {
	p := SearchParams{Scope: ScopeGlobal, Sort: &Sort{Field: SortPrice, Order: OrderAsc}, PageSize: 100}
	first := search(t, p)
	second := search(t, p)
	require.Equal(t, ids(first.Listings), ids(second.Listings))

	prices := first.Listings
	for i := 1; i < len(prices); i++ {
		require.LessOrEqual(t, prices[i-1].Price, prices[i].Price)
	}
}

func TestSearchSortTiesKeepGroupMembership(t *testing.T) {
	// l1 and l5 tie on price; only group membership is guaranteed
	res := search(t, SearchParams{Scope: ScopeGlobal, Sort: &Sort{Field: SortPrice, Order: OrderDesc}, PageSize: 100})
	require.Equal(t, "l3", res.Listings[0].ID)
	require.ElementsMatch(t, []string{"l1", "l5"}, []string{res.Listings[1].ID, res.Listings[2].ID})
	require.Equal(t, "l4", res.Listings[3].ID)
}

func TestSearchSortByListedAt(t *testing.T) {
	res := search(t, SearchParams{Scope: ScopeGlobal, Sort: &Sort{Field: SortListedAt, Order: OrderDesc}, PageSize: 100})
	require.Equal(t, []string{"l2", "l5", "l1", "l3", "l4"}, ids(res.Listings))
}

func TestPaginationReconstructsWhole(t *testing.T) {
	full := search(t, SearchParams{Scope: ScopeGlobal, Sort: &Sort{Field: SortListedAt, Order: OrderAsc}, PageSize: 100})
	for _, pageSize := range []int{1, 2, 3, 5, 7} {
		var got []string
		page := 1
		for {
			res := search(t, SearchParams{Scope: ScopeGlobal, Sort: &Sort{Field: SortListedAt, Order: OrderAsc}, Page: page, PageSize: pageSize})
			require.Equal(t, full.Total, res.Total)
			if len(res.Listings) == 0 {
				break
			}
			got = append(got, ids(res.Listings)...)
			page++
		}
		require.Equal(t, ids(full.Listings), got, "pageSize %d", pageSize)
	}
}

func TestPaginationBeyondRange(t *testing.T) {
	res := search(t, SearchParams{Scope: ScopeGlobal, Page: 99, PageSize: 10})
	require.Empty(t, res.Listings)
	require.Equal(t, 5, res.Total)
	require.Equal(t, 1, res.TotalPages)
	require.Equal(t, 99, res.Page)
}

func TestPaginationDefaults(t *testing.T) {
	res := search(t, SearchParams{Scope: ScopeGlobal})
	require.Equal(t, 1, res.Page)
	require.Equal(t, defaultPageSize, res.PageSize)
	require.Equal(t, 1, res.TotalPages)
}

func TestSearchSnapshotError(t *testing.T) {
	_, err := NewEngine(failingSnapshot{}).Search(context.Background(), SearchParams{Scope: ScopeGlobal})
	require.Error(t, err)
}
