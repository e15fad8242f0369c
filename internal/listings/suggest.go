package listings

import (
	"context"
	"sort"
	"strings"

	"github.com/yourorg/listings-api/internal/slug"
)

const defaultSuggestLimit = 8

// suggestion scores, lower is better
const (
	scoreStreetPrefix   = 0
	scoreStreetContains = 1
	scoreCityOrZip      = 2
	scoreFallback       = 3
)

type scored struct {
	listing Listing
	score   int
}

// Suggest returns autocomplete candidates ranked by match quality then
// recency. The ordering is two-keyed: score ascending (street prefix beats
// street substring beats city/zip), then max(updatedAt, listedAt) descending
// among equal scores. An empty or whitespace-only query returns nothing
// without scanning the dataset.
func (e *Engine) Suggest(ctx context.Context, p SuggestParams) ([]Listing, error) {
	query := strings.ToLower(strings.TrimSpace(p.Query))
	if query == "" {
		return []Listing{}, nil
	}
	limit := p.Limit
	if limit <= 0 {
		limit = defaultSuggestLimit
	}

	all, err := e.source.Listings(ctx)
	if err != nil {
		return nil, err
	}

	townSet := sliceToSet(p.TownSlugs)
	candidates := make([]scored, 0, 32)
	for _, l := range all {
		if len(p.Statuses) > 0 && !containsStatus(p.Statuses, l.Status) {
			continue
		}
		if len(townSet) > 0 {
			if _, ok := townSet[slug.Make(l.Address.City)]; !ok {
				continue
			}
		}
		if !matchesQuery(l, query) {
			continue
		}
		candidates = append(candidates, scored{listing: l, score: suggestScore(l, query)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score < candidates[j].score
		}
		return candidates[i].listing.LastTouched().After(candidates[j].listing.LastTouched())
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]Listing, len(candidates))
	for i, c := range candidates {
		out[i] = c.listing
	}
	return out, nil
}

func suggestScore(l Listing, query string) int {
	street := strings.ToLower(l.Address.Street)
	switch {
	case strings.HasPrefix(street, query), strings.HasPrefix(streetName(street), query):
		// the prefix check skips the house number, so "123 Main St" is a
		// prefix match for "main"
		return scoreStreetPrefix
	case strings.Contains(street, query):
		return scoreStreetContains
	case strings.Contains(strings.ToLower(l.Address.City), query),
		strings.Contains(strings.ToLower(l.Address.Zip), query):
		return scoreCityOrZip
	default:
		// unreachable given the candidate filter, kept as a safety default
		return scoreFallback
	}
}

// streetName drops a leading house number.
func streetName(street string) string {
	i := 0
	for i < len(street) && street[i] >= '0' && street[i] <= '9' {
		i++
	}
	if i == 0 {
		return street
	}
	return strings.TrimLeft(street[i:], " ")
}
