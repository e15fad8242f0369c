package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Result is a typed view of one cache lookup.
type Result[T any] struct {
	Data      T
	FromCache bool
	FetchedAt time.Time
	SourceURL string
}

// GetOrFetch resolves a typed payload through the store. On a hit the cached
// payload is returned immediately. On a miss the fetcher runs and, on
// success, the result is persisted and returned with FromCache=false. A
// fetcher failure is logged and yields nil; callers must render "data
// unavailable" rather than propagate an error.
//
// Concurrent requests that miss the same key each run the fetcher and race
// the write; the last write wins. No single-flight guard is in place.
func GetOrFetch[T any](ctx context.Context, s *Store, ref Ref, ttlOverride time.Duration, fetch func(ctx context.Context) (T, string, error)) *Result[T] {
	if e := s.Get(ctx, ref); e != nil {
		var v T
		err := json.Unmarshal([]byte(e.Payload), &v)
		if err == nil {
			return &Result[T]{Data: v, FromCache: true, FetchedAt: e.FetchedAt, SourceURL: e.SourceURL}
		}
		s.Logger.Warn("cached payload undecodable, refetching", "key", ref.Key(), "err", err)
	}

	v, sourceURL, err := fetch(ctx)
	if err != nil {
		s.Logger.Warn("enrichment fetch failed", "key", ref.Key(), "err", err)
		return nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		s.Logger.Warn("enrichment payload marshal failed", "key", ref.Key(), "err", err)
		return nil
	}
	if err := s.Set(ctx, ref, payload, sourceURL, ttlOverride); err != nil {
		// Serve the fresh data anyway; only persistence failed.
		s.Logger.Warn("cache write failed", "key", ref.Key(), "err", err)
	}
	return &Result[T]{Data: v, FromCache: false, FetchedAt: s.now(), SourceURL: sourceURL}
}
