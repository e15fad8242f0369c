package tenant

import (
	"context"
	"net/http"
)

// Propagation headers attached to every request once resolved. Downstream
// handlers may trust them when all four are present and well-formed;
// otherwise they must re-resolve from the host.
const (
	HeaderID     = "X-Tenant-Id"
	HeaderSlug   = "X-Tenant-Slug"
	HeaderDomain = "X-Tenant-Domain"
	HeaderSource = "X-Tenant-Source"
)

type ctxKey struct{}

func NewContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, tc)
}

func FromContext(ctx context.Context) (Context, bool) {
	tc, ok := ctx.Value(ctxKey{}).(Context)
	return tc, ok
}

// SetHeaders writes the four propagation fields.
func (tc Context) SetHeaders(h http.Header) {
	h.Set(HeaderID, tc.TenantID)
	h.Set(HeaderSlug, tc.TenantSlug)
	h.Set(HeaderDomain, tc.TenantDomain)
	h.Set(HeaderSource, string(tc.Source))
}

// FromHeaders reconstructs a Context from propagation headers. The second
// return is false unless the fields are complete and the source is one of
// the known values.
func FromHeaders(h http.Header) (Context, bool) {
	tc := Context{
		TenantID:     h.Get(HeaderID),
		TenantSlug:   h.Get(HeaderSlug),
		TenantDomain: h.Get(HeaderDomain),
		Source:       Source(h.Get(HeaderSource)),
	}
	if tc.TenantID == "" || tc.TenantSlug == "" {
		return Context{}, false
	}
	switch tc.Source {
	case SourceHostMatch, SourceLocalhostFallback, SourceDefaultFallback:
		return tc, true
	}
	return Context{}, false
}
