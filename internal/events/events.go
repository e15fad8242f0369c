package events

import (
	"context"
	"time"
)

type CacheWrite struct {
	Key       string
	Provider  string
	ExpiresAt time.Time
}

type ListingUpserted struct {
	ListingID string
	TenantID  string
	City      string
}

type Publisher interface {
	PublishCacheWrite(ctx context.Context, evt CacheWrite)
	SubscribeCacheWrites() <-chan CacheWrite
	PublishListingUpserted(ctx context.Context, evt ListingUpserted)
	SubscribeListingUpserts() <-chan ListingUpserted
}

type inMemory struct {
	cacheCh   chan CacheWrite
	listingCh chan ListingUpserted
}

func NewInMemory(buffer int) Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &inMemory{
		cacheCh:   make(chan CacheWrite, buffer),
		listingCh: make(chan ListingUpserted, buffer),
	}
}

// Publishes are non-blocking; events are dropped when the buffer is full.
func (m *inMemory) PublishCacheWrite(_ context.Context, evt CacheWrite) {
	select {
	case m.cacheCh <- evt:
	default:
	}
}

func (m *inMemory) SubscribeCacheWrites() <-chan CacheWrite { return m.cacheCh }

func (m *inMemory) PublishListingUpserted(_ context.Context, evt ListingUpserted) {
	select {
	case m.listingCh <- evt:
	default:
	}
}

func (m *inMemory) SubscribeListingUpserts() <-chan ListingUpserted { return m.listingCh }
