package listings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func suggestFixture() staticSnapshot {
	return staticSnapshot{
		{
			ID: "prefix", Status: StatusActive,
			Address:  Address{Street: "123 Main St", City: "Fairfield", Zip: "06824"},
			ListedAt: day(1), UpdatedAt: day(1), // oldest
		},
		{
			ID: "contains", Status: StatusActive,
			Address:  Address{Street: "5 Old Main Ave", City: "Fairfield", Zip: "06825"},
			ListedAt: day(30), UpdatedAt: day(30), // newest
		},
		{
			ID: "city", Status: StatusActive,
			Address:  Address{Street: "1 Elm St", City: "Mainville", Zip: "06999"},
			ListedAt: day(29), UpdatedAt: day(29),
		},
	}
}

func TestSuggestRankingBeatsRecency(t *testing.T) {
	e := NewEngine(suggestFixture())
	got, err := e.Suggest(context.Background(), SuggestParams{Query: "Main"})
	require.NoError(t, err)
	// prefix match wins even though it is the oldest listing
	require.Equal(t, []string{"prefix", "contains", "city"}, ids(got))
}

func TestSuggestRecencyBreaksScoreTies(t *testing.T) {
	e := NewEngine(staticSnapshot{
		{ID: "older", Status: StatusActive, Address: Address{Street: "10 Main St", City: "Fairfield", Zip: "06824"}, ListedAt: day(1), UpdatedAt: day(1)},
		{ID: "touched", Status: StatusActive, Address: Address{Street: "20 Main St", City: "Fairfield", Zip: "06824"}, ListedAt: day(2), UpdatedAt: day(40)},
		{ID: "newer", Status: StatusActive, Address: Address{Street: "30 Main St", City: "Fairfield", Zip: "06824"}, ListedAt: day(20), UpdatedAt: day(20)},
	})
	got, err := e.Suggest(context.Background(), SuggestParams{Query: "main"})
	require.NoError(t, err)
	// all score equally; max(updatedAt, listedAt) descending decides
	require.Equal(t, []string{"touched", "newer", "older"}, ids(got))
}

func TestSuggestEmptyQuerySkipsScan(t *testing.T) {
	e := NewEngine(failingSnapshot{})
	got, err := e.Suggest(context.Background(), SuggestParams{Query: "   "})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSuggestFilters(t *testing.T) {
	e := NewEngine(fixture())

	got, err := e.Suggest(context.Background(), SuggestParams{Query: "main", TownSlugs: []string{"fairfield"}})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"l1", "l2"}, ids(got))

	got, err = e.Suggest(context.Background(), SuggestParams{Query: "0688", Statuses: []Status{StatusActive}})
	require.NoError(t, err)
	require.Empty(t, got) // l3 matches the zip but is pending
}

func TestSuggestLimit(t *testing.T) {
	var ds staticSnapshot
	for i := 0; i < 20; i++ {
		ds = append(ds, Listing{
			ID: string(rune('a' + i)), Status: StatusActive,
			Address:  Address{Street: "1 Main St", City: "Fairfield", Zip: "06824"},
			ListedAt: day(i), UpdatedAt: day(i),
		})
	}
	e := NewEngine(ds)

	got, err := e.Suggest(context.Background(), SuggestParams{Query: "main"})
	require.NoError(t, err)
	require.Len(t, got, defaultSuggestLimit)

	got, err = e.Suggest(context.Background(), SuggestParams{Query: "main", Limit: 3})
	require.NoError(t, err)
	require.Len(t, got, 3)
}
