package enrich

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/yourorg/listings-api/internal/cache"
	"github.com/yourorg/listings-api/internal/listings"
	"github.com/yourorg/listings-api/internal/refresh"
)

// Location names the place an enrichment lookup is scoped to.
type Location struct {
	Scope            cache.Scope
	TownSlug         string
	NeighborhoodSlug string
	Lat              float64
	Lng              float64
	Address          string
}

// Service mediates enrichment lookups through the cache so each provider is
// called at most once per key per TTL window. A nil result means the data is
// unavailable; callers render a "data unavailable" state, never an error.
type Service struct {
	Cache     *cache.Store
	Walk      *WalkScoreClient
	POI       *POIClient
	Feed      *FeedClient
	Refresher *refresh.Refresher // optional near-expiry refresh
	Logger    *slog.Logger
}

func (s *Service) Walkability(ctx context.Context, loc Location) *cache.Result[Walkability] {
	ref := locationRef(cache.ProviderWalkability, loc)
	fetch := func(ctx context.Context) (Walkability, string, error) {
		return s.Walk.Score(ctx, loc.Lat, loc.Lng, loc.Address)
	}
	res := cache.GetOrFetch(ctx, s.Cache, ref, 0, fetch)
	scheduleRefresh(s, res, ref, fetch)
	return res
}

func (s *Service) PointsOfInterest(ctx context.Context, loc Location) *cache.Result[[]POI] {
	ref := locationRef(cache.ProviderPOI, loc)
	fetch := func(ctx context.Context) ([]POI, string, error) {
		return s.POI.Nearby(ctx, loc.Lat, loc.Lng, 0, nil, 0)
	}
	res := cache.GetOrFetch(ctx, s.Cache, ref, 0, fetch)
	scheduleRefresh(s, res, ref, fetch)
	return res
}

// FeedListings resolves a town's feed page through the cache (1-day TTL) and
// maps it. The second return is false when the feed is unavailable.
func (s *Service) FeedListings(ctx context.Context, townSlug string) ([]listings.Listing, bool) {
	ref := cache.Ref{Provider: cache.ProviderListingsMock, Scope: cache.ScopeTown, TownSlug: townSlug}
	res := cache.GetOrFetch(ctx, s.Cache, ref, 0, func(ctx context.Context) (json.RawMessage, string, error) {
		raw, sourceURL, err := s.Feed.TownListings(ctx, townSlug)
		return json.RawMessage(raw), sourceURL, err
	})
	if res == nil {
		return nil, false
	}
	ls, err := MapFeedListings(res.Data)
	if err != nil {
		s.Logger.Warn("feed payload unmappable", "town", townSlug, "err", err)
		return nil, false
	}
	return ls, true
}

func locationRef(provider cache.Provider, loc Location) cache.Ref {
	scope := loc.Scope
	if scope == "" {
		scope = cache.ScopeTown
	}
	return cache.Ref{
		Provider:         provider,
		Scope:            scope,
		TownSlug:         loc.TownSlug,
		NeighborhoodSlug: loc.NeighborhoodSlug,
	}
}

// scheduleRefresh enqueues a background refetch when a hit is inside the last
// tenth of its TTL window. The synchronous miss path keeps its unguarded
// check-then-act sequence; this only smooths over upcoming expiries.
func scheduleRefresh[T any](s *Service, res *cache.Result[T], ref cache.Ref, fetch func(ctx context.Context) (T, string, error)) {
	if s.Refresher == nil || res == nil || !res.FromCache {
		return
	}
	ttl := ref.Provider.TTL()
	if time.Until(res.FetchedAt.Add(ttl)) > ttl/10 {
		return
	}
	s.Refresher.Enqueue(refresh.Job{
		Key: ref.Key(),
		Refetch: func(ctx context.Context) {
			v, sourceURL, err := fetch(ctx)
			if err != nil {
				s.Logger.Warn("background refresh failed", "key", ref.Key(), "err", err)
				return
			}
			payload, err := json.Marshal(v)
			if err != nil {
				return
			}
			if err := s.Cache.Set(ctx, ref, payload, sourceURL, 0); err != nil {
				s.Logger.Warn("background refresh write failed", "key", ref.Key(), "err", err)
			}
		},
	})
}
