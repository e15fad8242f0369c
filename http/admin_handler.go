package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/listings-api/internal/cache"
)

type AdminDeps struct {
	Cache *cache.Store
}

// RegisterAdmin exposes cache invalidation for operators. Entries normally
// age out by TTL; this is the manual override for bad upstream data.
func RegisterAdmin(r chi.Router, d AdminDeps) {
	r.Delete("/admin/cache", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()

		if key := q.Get("key"); key != "" {
			if err := d.Cache.DeleteKey(req.Context(), key); err != nil {
				render.Status(req, http.StatusInternalServerError)
				render.JSON(w, req, map[string]any{"error": "cache_delete_error", "detail": err.Error()})
				return
			}
			render.JSON(w, req, map[string]any{"ok": true, "key": key})
			return
		}

		ref := cache.Ref{
			Provider:         cache.Provider(q.Get("provider")),
			Scope:            cache.Scope(q.Get("scope")),
			TownSlug:         q.Get("town"),
			NeighborhoodSlug: q.Get("neighborhood"),
			Variant:          q.Get("variant"),
		}
		if ref.Provider == "" || ref.Scope == "" || ref.TownSlug == "" {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "key_required", "detail": "provider, scope, and town are required (or a raw key)"})
			return
		}
		if err := d.Cache.Delete(req.Context(), ref); err != nil {
			render.Status(req, http.StatusInternalServerError)
			render.JSON(w, req, map[string]any{"error": "cache_delete_error", "detail": err.Error()})
			return
		}
		render.JSON(w, req, map[string]any{"ok": true, "key": ref.Key()})
	})
}
