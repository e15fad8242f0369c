package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/yourorg/listings-api/internal/events"
	"github.com/yourorg/listings-api/internal/redisx"
)

// Entry is the persisted envelope. The payload is always stored serialized;
// an entry is either absent, valid, or expired, never half-populated.
type Entry struct {
	Key       string    `json:"key"`
	Provider  Provider  `json:"provider"`
	Scope     Scope     `json:"scope"`
	Payload   string    `json:"payload"`
	FetchedAt time.Time `json:"fetchedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	SourceURL string    `json:"sourceUrl,omitempty"`
}

// Store persists TTL-bounded enrichment data shared across requests and
// process instances. Expiry is enforced by the expiresAt check at read time;
// the redis TTL only bounds how long dead envelopes linger.
type Store struct {
	Redis  *redisx.Client
	Logger *slog.Logger
	Pub    events.Publisher // optional cache-write event stream
	Now    func() time.Time // test hook
}

func NewStore(r *redisx.Client, logger *slog.Logger) *Store {
	return &Store{Redis: r, Logger: logger, Now: time.Now}
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Get returns the entry for ref, or nil when it is absent, expired, corrupt,
// or the backing store is unreachable. Read failures degrade to a miss.
func (s *Store) Get(ctx context.Context, ref Ref) *Entry {
	key := ref.Key()
	raw, ok, err := s.Redis.Get(ctx, key)
	if err != nil {
		s.Logger.Warn("cache read failed, treating as miss", "key", key, "err", err)
		return nil
	}
	if !ok {
		return nil
	}
	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		s.Logger.Warn("cache entry corrupt, treating as miss", "key", key, "err", err)
		return nil
	}
	if !e.ExpiresAt.After(s.now()) {
		return nil
	}
	return &e
}

// Set upserts the entry for ref with expiresAt = now + ttl, where ttl is the
// override when positive or the provider default otherwise.
func (s *Store) Set(ctx context.Context, ref Ref, payload []byte, sourceURL string, ttlOverride time.Duration) error {
	ttl := ttlOverride
	if ttl <= 0 {
		ttl = ref.Provider.TTL()
	}
	now := s.now()
	e := Entry{
		Key:       ref.Key(),
		Provider:  ref.Provider,
		Scope:     ref.Scope,
		Payload:   string(payload),
		FetchedAt: now,
		ExpiresAt: now.Add(ttl),
		SourceURL: sourceURL,
	}
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("cache marshal %q: %w", e.Key, err)
	}
	if err := s.Redis.Set(ctx, e.Key, string(b), ttl); err != nil {
		return fmt.Errorf("cache set %q: %w", e.Key, err)
	}
	if s.Pub != nil {
		s.Pub.PublishCacheWrite(ctx, events.CacheWrite{
			Key:       e.Key,
			Provider:  string(ref.Provider),
			ExpiresAt: e.ExpiresAt,
		})
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, ref Ref) error {
	return s.Redis.Del(ctx, ref.Key())
}

// DeleteKey removes a raw key, for admin invalidation of keys captured from
// logs or events.
func (s *Store) DeleteKey(ctx context.Context, key string) error {
	return s.Redis.Del(ctx, key)
}
