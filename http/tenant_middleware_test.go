package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yourorg/listings-api/internal/tenant"
)

func middlewareRegistry() *tenant.Registry {
	return tenant.NewRegistry(
		tenant.Tenant{ID: "t-default", Slug: "default", Domain: "example.com"},
		tenant.Tenant{ID: "t-fairfield", Slug: "fairfield", Domain: "fairfield.example.com"},
	)
}

func runResolve(t *testing.T, mutate func(*http.Request)) (*httptest.ResponseRecorder, tenant.Context) {
	t.Helper()
	var got tenant.Context
	h := ResolveTenant(middlewareRegistry())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tc, ok := tenant.FromContext(r.Context())
		require.True(t, ok)
		got = tc
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/listings", nil)
	mutate(req)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, got
}

func TestResolveTenantFromHost(t *testing.T) {
	rec, tc := runResolve(t, func(r *http.Request) {
		r.Host = "fairfield.example.com"
	})

	require.Equal(t, "t-fairfield", tc.TenantID)
	require.Equal(t, tenant.SourceHostMatch, tc.Source)
	require.Equal(t, "t-fairfield", rec.Header().Get(tenant.HeaderID))
	require.Equal(t, "fairfield", rec.Header().Get(tenant.HeaderSlug))
	require.Equal(t, string(tenant.SourceHostMatch), rec.Header().Get(tenant.HeaderSource))
}

func TestResolveTenantTrustsCompleteHeaders(t *testing.T) {
	rec, tc := runResolve(t, func(r *http.Request) {
		r.Host = "fairfield.example.com"
		r.Header.Set(tenant.HeaderID, "t-upstream")
		r.Header.Set(tenant.HeaderSlug, "upstream")
		r.Header.Set(tenant.HeaderDomain, "upstream.example.com")
		r.Header.Set(tenant.HeaderSource, string(tenant.SourceHostMatch))
	})

	require.Equal(t, "t-upstream", tc.TenantID)
	require.Equal(t, "t-upstream", rec.Header().Get(tenant.HeaderID))
}

func TestResolveTenantIgnoresPartialHeaders(t *testing.T) {
	_, tc := runResolve(t, func(r *http.Request) {
		r.Host = "fairfield.example.com"
		r.Header.Set(tenant.HeaderID, "t-upstream")
	})

	require.Equal(t, "t-fairfield", tc.TenantID)
}

func TestResolveTenantUnknownHostFallsBack(t *testing.T) {
	_, tc := runResolve(t, func(r *http.Request) {
		r.Host = "nobody.example.org"
	})

	require.Equal(t, "t-default", tc.TenantID)
	require.Equal(t, tenant.SourceDefaultFallback, tc.Source)
}
