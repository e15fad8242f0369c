package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yourorg/listings-api/enrich"
	"github.com/yourorg/listings-api/internal/audit"
	"github.com/yourorg/listings-api/internal/cache"
	"github.com/yourorg/listings-api/internal/env"
	"github.com/yourorg/listings-api/internal/events"
	"github.com/yourorg/listings-api/internal/listings"
	"github.com/yourorg/listings-api/internal/observability"
	"github.com/yourorg/listings-api/internal/redisx"
	"github.com/yourorg/listings-api/internal/refresh"
	"github.com/yourorg/listings-api/internal/store"
	"github.com/yourorg/listings-api/internal/tenant"
)

func main() {
	_ = godotenv.Load()
	logger := observability.NewLogger(env.Get("LOG_LEVEL", "info"))
	port := env.GetInt("PORT", 4002)

	registry := tenant.NewRegistry(
		parseTenant(env.Get("DEFAULT_TENANT", "t-default:default:example.com")),
		parseTenants(env.GetList("TENANTS"))...,
	)

	redis := redisx.New(env.Get("REDIS_ADDR", "localhost:6379"), env.Get("REDIS_PASSWORD", ""), env.GetInt("REDIS_DB", 0))
	st, err := store.Open(env.Must("PG_DSN"))
	if err != nil {
		logger.Error("store open failed", "err", err)
		os.Exit(1)
	}
	defer st.DB.Close()

	bootCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := redis.Ping(bootCtx); err != nil {
		logger.Error("redis ping failed", "err", err)
		cancel()
		os.Exit(1)
	}
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
	cancel()

	pub := events.NewInMemory(256)
	cacheStore := cache.NewStore(redis, logger)
	cacheStore.Pub = pub

	snapshot := store.NewSnapshotProvider(st, logger)
	engine := listings.NewEngine(snapshot)

	refresher := refresh.New(env.GetInt("REFRESH_QUEUE", 256), env.GetInt("REFRESH_WORKERS", 2))
	enrichSvc := &enrich.Service{
		Cache:     cacheStore,
		Walk:      enrich.NewWalkScoreClient(env.Get("WALKSCORE_API_KEY", "")),
		POI:       enrich.NewPOIClient(env.Get("POI_API_KEY", "")),
		Feed:      enrich.NewFeedClient(env.Get("LISTINGS_FEED_URL", "https://feeds.example.com")),
		Refresher: refresher,
		Logger:    logger,
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := snapshot.Reload(rootCtx); err != nil {
		logger.Warn("initial snapshot load failed, serving empty dataset until reload", "err", err)
	}
	go snapshot.Run(rootCtx, env.GetDuration("SNAPSHOT_RELOAD_INTERVAL", 5*time.Minute))

	auditor := &audit.Auditor{Pub: pub, Logger: logger}
	go auditor.Run(rootCtx)

	router := BuildRouter(RouterDeps{
		Logger:  logger,
		Tenants: registry,
		Engine:  engine,
		Enrich:  enrichSvc,
		Cache:   cacheStore,
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: router}
	go func() {
		logger.Info("listings-api listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	<-rootCtx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", "err", err)
	}
}

// parseTenant reads an "id:slug:domain" triple.
func parseTenant(v string) tenant.Tenant {
	parts := strings.SplitN(v, ":", 3)
	t := tenant.Tenant{}
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

func parseTenants(vs []string) []tenant.Tenant {
	out := make([]tenant.Tenant, 0, len(vs))
	for _, v := range vs {
		t := parseTenant(v)
		if t.ID != "" && t.Domain != "" {
			out = append(out, t)
		}
	}
	return out
}
