package tenant

import (
	"net"
	"strings"
)

// Source records which step of the resolution chain produced a Context.
type Source string

const (
	SourceHostMatch         Source = "host_match"
	SourceLocalhostFallback Source = "localhost_fallback"
	SourceDefaultFallback   Source = "default_fallback"
)

type Tenant struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	Domain string `json:"domain"`
}

// Context is the per-request isolation context. It is created once per
// inbound request and never mutated afterwards.
type Context struct {
	TenantID     string `json:"tenant_id"`
	TenantSlug   string `json:"tenant_slug"`
	TenantDomain string `json:"tenant_domain"`
	Source       Source `json:"source"`
}

// Registry maps registered tenant domains to tenants and holds the default
// tenant every fallback path resolves to. It is immutable after construction,
// so Resolve is safe to call from any number of concurrent requests.
type Registry struct {
	byDomain map[string]Tenant
	def      Tenant
}

func NewRegistry(def Tenant, tenants ...Tenant) *Registry {
	byDomain := make(map[string]Tenant, len(tenants)+1)
	for _, t := range tenants {
		if d := strings.ToLower(strings.TrimSpace(t.Domain)); d != "" {
			byDomain[d] = t
		}
	}
	if d := strings.ToLower(strings.TrimSpace(def.Domain)); d != "" {
		byDomain[d] = def
	}
	return &Registry{byDomain: byDomain, def: def}
}

// Resolve derives a tenant Context from a raw Host header value. It never
// fails: malformed input degrades to the default tenant.
//
// Priority order: exact domain match, www-stripped match, localhost
// fallback, default fallback.
func (r *Registry) Resolve(hostHeader string) Context {
	host := normalizeHost(hostHeader)
	if host == "" {
		return contextFor(r.def, SourceDefaultFallback)
	}
	if t, ok := r.byDomain[host]; ok {
		return contextFor(t, SourceHostMatch)
	}
	if stripped, ok := strings.CutPrefix(host, "www."); ok {
		if t, ok := r.byDomain[stripped]; ok {
			return contextFor(t, SourceHostMatch)
		}
	}
	if isLocalHost(host) {
		return contextFor(r.def, SourceLocalhostFallback)
	}
	return contextFor(r.def, SourceDefaultFallback)
}

// Default returns the fallback tenant.
func (r *Registry) Default() Tenant { return r.def }

func contextFor(t Tenant, src Source) Context {
	return Context{
		TenantID:     t.ID,
		TenantSlug:   t.Slug,
		TenantDomain: t.Domain,
		Source:       src,
	}
}

// normalizeHost takes the first comma-separated value, strips any port and
// surrounding brackets, and lower-cases. Returns "" for unusable input.
func normalizeHost(raw string) string {
	if i := strings.IndexByte(raw, ','); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(raw); err == nil {
		return h
	}
	return strings.Trim(raw, "[]")
}

func isLocalHost(host string) bool {
	switch host {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return strings.HasSuffix(host, ".localhost")
}
