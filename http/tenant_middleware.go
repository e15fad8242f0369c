package httpapi

import (
	"net/http"

	"github.com/yourorg/listings-api/internal/tenant"
)

// ResolveTenant annotates every request with a tenant Context. Propagation
// headers from a trusted upstream are honored when complete; otherwise the
// tenant is re-resolved from the Host header. The four propagation fields are
// echoed on the response.
func ResolveTenant(reg *tenant.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tc, ok := tenant.FromHeaders(r.Header)
			if !ok {
				tc = reg.Resolve(r.Host)
			}
			tc.SetHeaders(w.Header())
			next.ServeHTTP(w, r.WithContext(tenant.NewContext(r.Context(), tc)))
		})
	}
}
