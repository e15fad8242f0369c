package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/listings-api/enrich"
	"github.com/yourorg/listings-api/internal/cache"
	"github.com/yourorg/listings-api/internal/tenant"
)

type EnrichDeps struct {
	Service *enrich.Service
}

func RegisterEnrich(r chi.Router, d EnrichDeps) {
	r.Get("/enrich/walkability", func(w http.ResponseWriter, req *http.Request) {
		loc, ok := locationFromQuery(w, req)
		if !ok {
			return
		}
		renderEnrichment(w, req, d.Service.Walkability(req.Context(), loc))
	})

	r.Get("/enrich/poi", func(w http.ResponseWriter, req *http.Request) {
		loc, ok := locationFromQuery(w, req)
		if !ok {
			return
		}
		renderEnrichment(w, req, d.Service.PointsOfInterest(req.Context(), loc))
	})
}

func locationFromQuery(w http.ResponseWriter, req *http.Request) (enrich.Location, bool) {
	q := req.URL.Query()
	loc := enrich.Location{
		Scope:            cache.ScopeTown,
		TownSlug:         q.Get("town"),
		NeighborhoodSlug: q.Get("neighborhood"),
		Address:          q.Get("address"),
	}
	if loc.NeighborhoodSlug != "" {
		loc.Scope = cache.ScopeNeighborhood
	}
	if loc.TownSlug == "" {
		if tc, ok := tenant.FromContext(req.Context()); ok {
			loc.TownSlug = tc.TenantSlug
		}
	}
	lat, okLat := queryFloat(q.Get("lat"))
	lng, okLng := queryFloat(q.Get("lng"))
	if loc.TownSlug == "" || !okLat || !okLng {
		render.Status(req, http.StatusBadRequest)
		render.JSON(w, req, map[string]any{"error": "location_required", "detail": "town, lat, and lng are required"})
		return enrich.Location{}, false
	}
	loc.Lat, loc.Lng = lat, lng
	return loc, true
}

// renderEnrichment maps a nil lookup to an explicit "data unavailable"
// body; enrichment failures never surface as HTTP errors.
func renderEnrichment[T any](w http.ResponseWriter, req *http.Request, res *cache.Result[T]) {
	if res == nil {
		render.JSON(w, req, map[string]any{"ok": true, "available": false, "message": "data unavailable"})
		return
	}
	render.JSON(w, req, map[string]any{
		"ok":        true,
		"available": true,
		"fromCache": res.FromCache,
		"fetchedAt": res.FetchedAt,
		"sourceUrl": res.SourceURL,
		"data":      res.Data,
	})
}
