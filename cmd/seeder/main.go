package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yourorg/listings-api/enrich"
	"github.com/yourorg/listings-api/internal/cache"
	"github.com/yourorg/listings-api/internal/env"
	"github.com/yourorg/listings-api/internal/events"
	"github.com/yourorg/listings-api/internal/observability"
	"github.com/yourorg/listings-api/internal/redisx"
	"github.com/yourorg/listings-api/internal/seed"
	"github.com/yourorg/listings-api/internal/store"
	"github.com/yourorg/listings-api/internal/tenant"
)

func main() {
	_ = godotenv.Load()
	logger := observability.NewLogger(env.Get("LOG_LEVEL", "info"))

	dsn := env.Must("PG_DSN")
	feedURL := env.Must("LISTINGS_FEED_URL")
	towns := env.GetList("SEEDER_TOWNS")
	if len(towns) == 0 {
		logger.Error("SEEDER_TOWNS must be provided")
		os.Exit(1)
	}

	st, err := store.Open(dsn)
	if err != nil {
		logger.Error("store open failed", "err", err)
		os.Exit(1)
	}
	defer st.DB.Close()

	bootCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := st.Ping(bootCtx); err != nil {
		logger.Error("postgres ping failed", "err", err)
		cancel()
		os.Exit(1)
	}
	if err := st.Migrate(bootCtx); err != nil {
		logger.Error("postgres migrate failed", "err", err)
		cancel()
		os.Exit(1)
	}

	seedTenant := parseSeedTenant(env.Get("SEEDER_TENANT", "t-default:default:example.com"))
	if err := st.UpsertTenant(bootCtx, seedTenant); err != nil {
		logger.Error("tenant upsert failed", "err", err)
		cancel()
		os.Exit(1)
	}
	cancel()

	redis := redisx.New(env.Get("REDIS_ADDR", "localhost:6379"), env.Get("REDIS_PASSWORD", ""), env.GetInt("REDIS_DB", 0))
	pub := events.NewInMemory(256)
	cacheStore := cache.NewStore(redis, logger)
	cacheStore.Pub = pub

	enrichSvc := &enrich.Service{
		Cache:  cacheStore,
		Feed:   enrich.NewFeedClient(feedURL),
		Logger: logger,
	}

	job := &seed.Job{
		Enrich: enrichSvc,
		Store:  st,
		Pub:    pub,
		Logger: logger,
		Config: seed.Config{
			TownSlugs:         towns,
			TenantID:          seedTenant.ID,
			Interval:          env.GetDuration("SEEDER_INTERVAL", 6*time.Hour),
			PauseBetweenTowns: env.GetDuration("SEEDER_PAUSE", 1500*time.Millisecond),
			RequestTimeout:    env.GetDuration("SEEDER_REQUEST_TIMEOUT", 12*time.Second),
		},
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if env.GetBool("SEEDER_RUN_ONCE", false) {
		if err := job.RunOnce(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("seed run failed", "err", err)
			os.Exit(1)
		}
		return
	}

	if err := job.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("seed job stopped with error", "err", err)
		os.Exit(1)
	}
}

// parseSeedTenant reads an "id:slug:domain" triple.
func parseSeedTenant(v string) tenant.Tenant {
	var t tenant.Tenant
	parts := strings.SplitN(v, ":", 3)
	if len(parts) > 0 {
		t.ID = strings.TrimSpace(parts[0])
	}
	if len(parts) > 1 {
		t.Slug = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		t.Domain = strings.TrimSpace(parts[2])
	}
	return t
}
