package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/listings-api/internal/listings"
)

func RegisterSuggest(r chi.Router, d ListingsDeps) {
	r.Get("/search/suggest", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		params := listings.SuggestParams{
			Query:     q.Get("q"),
			TownSlugs: splitCSV(q.Get("towns")),
			Limit:     queryInt(q.Get("limit"), 0),
		}
		for _, s := range splitCSV(q.Get("status")) {
			params.Statuses = append(params.Statuses, listings.Status(s))
		}

		got, err := d.Engine.Suggest(req.Context(), params)
		if err != nil {
			render.Status(req, http.StatusInternalServerError)
			render.JSON(w, req, map[string]any{"error": "suggest_error", "detail": err.Error()})
			return
		}
		render.JSON(w, req, map[string]any{"ok": true, "count": len(got), "listings": got})
	})
}
