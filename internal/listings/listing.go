package listings

import "time"

type Status string

const (
	StatusActive  Status = "active"
	StatusPending Status = "pending"
	StatusSold    Status = "sold"
)

type Address struct {
	Street           string `json:"street"`
	City             string `json:"city"`
	State            string `json:"state"`
	Zip              string `json:"zip"`
	NeighborhoodSlug string `json:"neighborhoodSlug,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Listing is an immutable-per-snapshot record. Coords is nil when the
// listing has no geocode; it is never half-populated.
type Listing struct {
	ID           string       `json:"id"`
	Status       Status       `json:"status"`
	PropertyType string       `json:"propertyType"`
	Price        int          `json:"price"` // whole dollars
	Beds         int          `json:"beds"`
	Baths        int          `json:"baths"`
	Sqft         int          `json:"sqft"`
	LotAcres     *float64     `json:"lotAcres,omitempty"`
	Address      Address      `json:"address"`
	Coords       *Coordinates `json:"coords,omitempty"`
	Photos       []string     `json:"photos,omitempty"`
	ListedAt     time.Time    `json:"listedAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// LastTouched is the recency key used by suggestion ranking.
func (l Listing) LastTouched() time.Time {
	if l.UpdatedAt.After(l.ListedAt) {
		return l.UpdatedAt
	}
	return l.ListedAt
}

// Filters is an AND-combined predicate set. Nil fields mean "no constraint".
// A min greater than its max yields zero matches, never an error.
type Filters struct {
	Statuses      []Status `json:"statuses,omitempty"`
	PriceMin      *int     `json:"priceMin,omitempty"`
	PriceMax      *int     `json:"priceMax,omitempty"`
	BedsMin       *int     `json:"bedsMin,omitempty"`
	BathsMin      *int     `json:"bathsMin,omitempty"`
	SqftMin       *int     `json:"sqftMin,omitempty"`
	SqftMax       *int     `json:"sqftMax,omitempty"`
	LotAcresMin   *float64 `json:"lotAcresMin,omitempty"`
	LotAcresMax   *float64 `json:"lotAcresMax,omitempty"`
	PropertyTypes []string `json:"propertyTypes,omitempty"`
}

type SortField string

const (
	SortPrice    SortField = "price"
	SortBeds     SortField = "beds"
	SortSqft     SortField = "sqft"
	SortListedAt SortField = "listedAt"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

type Sort struct {
	Field SortField `json:"field"`
	Order SortOrder `json:"order"`
}

// Bounds is a geographic rectangle with inclusive edges.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

func (b Bounds) Contains(c Coordinates) bool {
	return c.Lat >= b.South && c.Lat <= b.North &&
		c.Lng >= b.West && c.Lng <= b.East
}

type Scope string

const (
	ScopeGlobal       Scope = "global"
	ScopeTown         Scope = "town"
	ScopeNeighborhood Scope = "neighborhood"
)

type SearchParams struct {
	Scope             Scope    `json:"scope"`
	TownSlug          string   `json:"townSlug,omitempty"`
	NeighborhoodSlug  string   `json:"neighborhoodSlug,omitempty"`
	TownSlugs         []string `json:"townSlugs,omitempty"`
	NeighborhoodSlugs []string `json:"neighborhoodSlugs,omitempty"`
	Bounds            *Bounds  `json:"bounds,omitempty"`
	Query             string   `json:"q,omitempty"`
	Filters           Filters  `json:"filters,omitempty"`
	Sort              *Sort    `json:"sort,omitempty"`
	Page              int      `json:"page,omitempty"`
	PageSize          int      `json:"pageSize,omitempty"`
}

type SearchResult struct {
	Listings   []Listing `json:"listings"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
}

type SuggestParams struct {
	Query     string   `json:"q"`
	TownSlugs []string `json:"townSlugs,omitempty"`
	Statuses  []Status `json:"status,omitempty"`
	Limit     int      `json:"limit,omitempty"`
}
