package seed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/yourorg/listings-api/enrich"
	"github.com/yourorg/listings-api/internal/events"
	"github.com/yourorg/listings-api/internal/store"
)

type Config struct {
	TownSlugs         []string
	TenantID          string
	Interval          time.Duration
	PauseBetweenTowns time.Duration
	RequestTimeout    time.Duration
}

// Job imports the listings feed for each configured town into postgres. The
// feed itself goes through the enrichment cache, so reruns inside the feed
// TTL window do not refetch.
type Job struct {
	Enrich *enrich.Service
	Store  *store.Store
	Pub    events.Publisher
	Logger *slog.Logger
	Config Config
}

func (j *Job) validate() error {
	if j == nil {
		return errors.New("nil seed job")
	}
	if j.Enrich == nil {
		return errors.New("seed job missing enrichment service")
	}
	if j.Store == nil {
		return errors.New("seed job missing store")
	}
	if len(j.Config.TownSlugs) == 0 {
		return errors.New("seed job requires at least one town")
	}
	if j.Config.RequestTimeout <= 0 {
		j.Config.RequestTimeout = 12 * time.Second
	}
	return nil
}

func (j *Job) Run(ctx context.Context) error {
	if err := j.validate(); err != nil {
		return err
	}
	interval := j.Config.Interval
	if interval <= 0 {
		return j.RunOnce(ctx)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	j.Logger.Info("seed job starting", "interval", interval, "towns", len(j.Config.TownSlugs))
	if err := j.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		j.Logger.Warn("seed job initial run error", "err", err)
	}
	for {
		select {
		case <-ctx.Done():
			j.Logger.Info("seed job stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if err := j.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				j.Logger.Warn("seed job iteration error", "err", err)
			}
		}
	}
}

func (j *Job) RunOnce(ctx context.Context) error {
	if err := j.validate(); err != nil {
		return err
	}
	for i, town := range j.Config.TownSlugs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if i > 0 && j.Config.PauseBetweenTowns > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(j.Config.PauseBetweenTowns):
			}
		}
		j.importTown(ctx, town)
	}
	return nil
}

func (j *Job) importTown(ctx context.Context, townSlug string) {
	reqCtx, cancel := context.WithTimeout(ctx, j.Config.RequestTimeout)
	defer cancel()

	ls, ok := j.Enrich.FeedListings(reqCtx, townSlug)
	if !ok {
		j.Logger.Warn("feed unavailable, skipping town", "town", townSlug)
		return
	}
	imported := 0
	for _, l := range ls {
		if err := j.Store.UpsertListing(reqCtx, j.Config.TenantID, l); err != nil {
			j.Logger.Warn("listing upsert failed", "listing_id", l.ID, "err", err)
			continue
		}
		imported++
		if j.Pub != nil {
			j.Pub.PublishListingUpserted(ctx, events.ListingUpserted{
				ListingID: l.ID,
				TenantID:  j.Config.TenantID,
				City:      l.Address.City,
			})
		}
	}
	j.Logger.Info("town imported", "town", townSlug, "listings", imported)
}
