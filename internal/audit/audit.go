package audit

import (
	"context"
	"log/slog"

	"github.com/yourorg/listings-api/internal/events"
)

// Auditor consumes cache-write and listing-upsert events and logs them so
// operators can trace what was fetched and persisted, and when it expires.
type Auditor struct {
	Pub    events.Publisher
	Logger *slog.Logger
}

func (a *Auditor) Run(ctx context.Context) {
	writes := a.Pub.SubscribeCacheWrites()
	upserts := a.Pub.SubscribeListingUpserts()
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-writes:
			a.Logger.Info("cache write",
				"key", evt.Key, "provider", evt.Provider, "expires_at", evt.ExpiresAt)
		case evt := <-upserts:
			a.Logger.Info("listing upserted",
				"listing_id", evt.ListingID, "tenant_id", evt.TenantID, "city", evt.City)
		}
	}
}
