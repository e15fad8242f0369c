package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/listings-api/internal/listings"
	"github.com/yourorg/listings-api/internal/tenant"
)

type ListingsDeps struct {
	Engine *listings.Engine
}

func RegisterListings(r chi.Router, d ListingsDeps) {
	// POST JSON
	r.Post("/search/listings", func(w http.ResponseWriter, req *http.Request) {
		var params listings.SearchParams
		if err := json.NewDecoder(req.Body).Decode(&params); err != nil {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "invalid_json", "detail": err.Error()})
			return
		}
		handleSearch(w, req, d, params)
	})

	// GET query
	r.Get("/search/listings", func(w http.ResponseWriter, req *http.Request) {
		handleSearch(w, req, d, searchParamsFromQuery(req))
	})
}

func handleSearch(w http.ResponseWriter, req *http.Request, d ListingsDeps, params listings.SearchParams) {
	if params.Scope == "" {
		params.Scope = listings.ScopeGlobal
	}
	// town-scoped requests without an explicit town fall back to the tenant
	if params.TownSlug == "" && params.Scope != listings.ScopeGlobal {
		if tc, ok := tenant.FromContext(req.Context()); ok {
			params.TownSlug = tc.TenantSlug
		}
	}
	res, err := d.Engine.Search(req.Context(), params)
	if err != nil {
		render.Status(req, http.StatusInternalServerError)
		render.JSON(w, req, map[string]any{"error": "search_error", "detail": err.Error()})
		return
	}
	render.JSON(w, req, res)
}

func searchParamsFromQuery(req *http.Request) listings.SearchParams {
	q := req.URL.Query()
	var params listings.SearchParams
	params.Scope = listings.Scope(q.Get("scope"))
	params.TownSlug = q.Get("town")
	params.NeighborhoodSlug = q.Get("neighborhood")
	params.TownSlugs = splitCSV(q.Get("towns"))
	params.NeighborhoodSlugs = splitCSV(q.Get("neighborhoods"))
	params.Query = q.Get("q")
	params.Page = queryInt(q.Get("page"), 0)
	params.PageSize = queryInt(q.Get("pageSize"), 0)

	if north, ok1 := queryFloat(q.Get("north")); ok1 {
		if south, ok2 := queryFloat(q.Get("south")); ok2 {
			if east, ok3 := queryFloat(q.Get("east")); ok3 {
				if west, ok4 := queryFloat(q.Get("west")); ok4 {
					params.Bounds = &listings.Bounds{North: north, South: south, East: east, West: west}
				}
			}
		}
	}

	var f listings.Filters
	for _, s := range splitCSV(q.Get("status")) {
		f.Statuses = append(f.Statuses, listings.Status(s))
	}
	f.PriceMin = queryIntPtr(q.Get("minprice"))
	f.PriceMax = queryIntPtr(q.Get("maxprice"))
	f.BedsMin = queryIntPtr(q.Get("beds"))
	f.BathsMin = queryIntPtr(q.Get("baths"))
	f.SqftMin = queryIntPtr(q.Get("minsqft"))
	f.SqftMax = queryIntPtr(q.Get("maxsqft"))
	f.LotAcresMin = queryFloatPtr(q.Get("minacres"))
	f.LotAcresMax = queryFloatPtr(q.Get("maxacres"))
	f.PropertyTypes = splitCSV(q.Get("types"))
	params.Filters = f

	if field := q.Get("sortby"); field != "" {
		order := listings.SortOrder(q.Get("order"))
		if order != listings.OrderDesc {
			order = listings.OrderAsc
		}
		params.Sort = &listings.Sort{Field: listings.SortField(field), Order: order}
	}
	return params
}

func splitCSV(v string) []string {
	if v == "" {
		return nil
	}
	fields := strings.Split(v, ",")
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func queryInt(v string, def int) int {
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func queryIntPtr(v string) *int {
	if v == "" {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &i
}

func queryFloat(v string) (float64, bool) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func queryFloatPtr(v string) *float64 {
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
