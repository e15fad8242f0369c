package listings

import (
	"context"
	"sort"
	"strings"

	"github.com/yourorg/listings-api/internal/slug"
)

// Snapshot supplies the full listings dataset the engine operates over. The
// returned slice is treated as immutable for the duration of a call.
type Snapshot interface {
	Listings(ctx context.Context) ([]Listing, error)
}

// Engine filters, sorts, ranks, and paginates a scoped dataset. It holds no
// mutable state of its own; construct one at process start and share it.
type Engine struct {
	source Snapshot
}

func NewEngine(source Snapshot) *Engine {
	return &Engine{source: source}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Search applies the fixed pipeline: scope, allow-lists, bounds, free-text,
// structured filters, sort, paginate. Empty results and out-of-range pages
// are valid outputs, never errors.
func (e *Engine) Search(ctx context.Context, p SearchParams) (SearchResult, error) {
	all, err := e.source.Listings(ctx)
	if err != nil {
		return SearchResult{}, err
	}

	filtered := make([]Listing, 0, len(all))
	query := strings.ToLower(strings.TrimSpace(p.Query))
	townSet := sliceToSet(p.TownSlugs)
	hoodSet := sliceToSet(p.NeighborhoodSlugs)

	for _, l := range all {
		if !matchesScope(l, p) {
			continue
		}
		if p.Scope == ScopeGlobal && !matchesAllowLists(l, townSet, hoodSet) {
			continue
		}
		if p.Bounds != nil && (l.Coords == nil || !p.Bounds.Contains(*l.Coords)) {
			continue
		}
		if query != "" && !matchesQuery(l, query) {
			continue
		}
		if !matchesFilters(l, p.Filters) {
			continue
		}
		filtered = append(filtered, l)
	}

	if p.Sort != nil {
		sortListings(filtered, *p.Sort)
	}

	return paginate(filtered, p.Page, p.PageSize), nil
}

func matchesScope(l Listing, p SearchParams) bool {
	switch p.Scope {
	case ScopeTown:
		return slug.Same(l.Address.City, p.TownSlug)
	case ScopeNeighborhood:
		return slug.Same(l.Address.City, p.TownSlug) &&
			l.Address.NeighborhoodSlug == p.NeighborhoodSlug
	default:
		return true
	}
}

func matchesAllowLists(l Listing, towns, hoods map[string]struct{}) bool {
	if len(towns) > 0 {
		if _, ok := towns[slug.Make(l.Address.City)]; !ok {
			return false
		}
	}
	if len(hoods) > 0 {
		if _, ok := hoods[l.Address.NeighborhoodSlug]; !ok {
			return false
		}
	}
	return true
}

func matchesQuery(l Listing, query string) bool {
	return strings.Contains(strings.ToLower(l.Address.Street), query) ||
		strings.Contains(strings.ToLower(l.Address.City), query) ||
		strings.Contains(strings.ToLower(l.Address.Zip), query)
}

func matchesFilters(l Listing, f Filters) bool {
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, l.Status) {
		return false
	}
	if !intInRange(l.Price, f.PriceMin, f.PriceMax) {
		return false
	}
	if f.BedsMin != nil && l.Beds < *f.BedsMin {
		return false
	}
	if f.BathsMin != nil && l.Baths < *f.BathsMin {
		return false
	}
	if !intInRange(l.Sqft, f.SqftMin, f.SqftMax) {
		return false
	}
	if f.LotAcresMin != nil || f.LotAcresMax != nil {
		// a lot-size bound fails listings with no recorded lot size
		if l.LotAcres == nil {
			return false
		}
		if f.LotAcresMin != nil && *l.LotAcres < *f.LotAcresMin {
			return false
		}
		if f.LotAcresMax != nil && *l.LotAcres > *f.LotAcresMax {
			return false
		}
	}
	if len(f.PropertyTypes) > 0 && !containsFold(f.PropertyTypes, l.PropertyType) {
		return false
	}
	return true
}

func intInRange(v int, min, max *int) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}

func containsStatus(set []Status, s Status) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsFold(set []string, s string) bool {
	for _, v := range set {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// sortListings is stable; equal sort values keep their input order, no
// secondary key is applied.
func sortListings(ls []Listing, s Sort) {
	cmp := func(a, b Listing) int {
		switch s.Field {
		case SortBeds:
			return a.Beds - b.Beds
		case SortSqft:
			return a.Sqft - b.Sqft
		case SortListedAt:
			return a.ListedAt.Compare(b.ListedAt)
		default: // price
			return a.Price - b.Price
		}
	}
	sort.SliceStable(ls, func(i, j int) bool {
		c := cmp(ls[i], ls[j])
		if s.Order == OrderDesc {
			return c > 0
		}
		return c < 0
	})
}

func paginate(filtered []Listing, page, pageSize int) SearchResult {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	pageItems := make([]Listing, end-start)
	copy(pageItems, filtered[start:end])

	return SearchResult{
		Listings:   pageItems,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

func sliceToSet(items []string) map[string]struct{} {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
