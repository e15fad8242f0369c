package cache

import (
	"strings"
	"time"
)

// Provider identifies an external data source with its own refresh cadence.
type Provider string

const (
	ProviderWalkability  Provider = "walkability"
	ProviderPOI          Provider = "poi"
	ProviderCensus       Provider = "census"
	ProviderSchools      Provider = "schools"
	ProviderListingsMock Provider = "listings_mock"
)

type Scope string

const (
	ScopeTown         Scope = "town"
	ScopeNeighborhood Scope = "neighborhood"
)

const day = 24 * time.Hour

// DefaultTTL applies to providers without a configured entry.
const DefaultTTL = 7 * day

var providerTTL = map[Provider]time.Duration{
	ProviderWalkability:  30 * day,
	ProviderPOI:          14 * day,
	ProviderCensus:       90 * day, // manual-refresh cadence
	ProviderSchools:      90 * day,
	ProviderListingsMock: 1 * day,
}

func (p Provider) TTL() time.Duration {
	if ttl, ok := providerTTL[p]; ok {
		return ttl
	}
	return DefaultTTL
}

// Ref names one logical cache entry.
type Ref struct {
	Provider         Provider
	Scope            Scope
	TownSlug         string
	NeighborhoodSlug string
	Variant          string
}

const defaultVariant = "v1"

// Key renders the persisted key string:
//
//	{provider}:{scope}:{townSlug}[:{neighborhoodSlug}]:{variant}
//
// The neighborhood segment appears only for neighborhood scope. Every caller
// relies on this exact layout; changing it invalidates every stored entry.
func (r Ref) Key() string {
	parts := make([]string, 0, 5)
	parts = append(parts, string(r.Provider), string(r.Scope), r.TownSlug)
	if r.Scope == ScopeNeighborhood {
		parts = append(parts, r.NeighborhoodSlug)
	}
	variant := r.Variant
	if variant == "" {
		variant = defaultVariant
	}
	parts = append(parts, variant)
	return strings.Join(parts, ":")
}
