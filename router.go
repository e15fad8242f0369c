package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"

	"github.com/yourorg/listings-api/enrich"
	httpapi "github.com/yourorg/listings-api/http"
	"github.com/yourorg/listings-api/internal/cache"
	"github.com/yourorg/listings-api/internal/listings"
	"github.com/yourorg/listings-api/internal/tenant"
)

type RouterDeps struct {
	Logger  *slog.Logger
	Tenants *tenant.Registry
	Engine  *listings.Engine
	Enrich  *enrich.Service
	Cache   *cache.Store
}

func BuildRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(httpapi.RequestLogger(d.Logger))
	r.Use(httprate.LimitByIP(100, 1*time.Minute)) // protect upstream quotas
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(httpapi.ResolveTenant(d.Tenants))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"ok":true}`)) })

	httpapi.RegisterListings(r, httpapi.ListingsDeps{Engine: d.Engine})
	httpapi.RegisterSuggest(r, httpapi.ListingsDeps{Engine: d.Engine})
	httpapi.RegisterEnrich(r, httpapi.EnrichDeps{Service: d.Enrich})
	httpapi.RegisterAdmin(r, httpapi.AdminDeps{Cache: d.Cache})

	return r
}
