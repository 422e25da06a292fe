// internal/tenant/host.go
//
// Host classification: the first half of the site resolver.
//
// Context
// -------
// Given the Host header of an inbound request, decide whether it
// addresses a subdomain tenant ({slug}.{rootDomain}), a custom-domain
// tenant, or the platform itself.  The root domain, preview domain, and
// reserved subdomain list are injected configuration — never module
// constants — so the classifier is testable without environment coupling.
//
// Classification never touches the database; the cache performs the
// actual site lookup afterwards.  A custom domain that exists but is
// unverified resolves as not-found downstream (fail closed).
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.
package tenant

import (
	"net"
	"strings"
)

// MatchKind tags the classification outcome.
type MatchKind int

const (
	// MatchNone means the host is platform-owned (root domain, reserved
	// subdomain, preview, localhost, or IP) and no tenant lookup applies.
	MatchNone MatchKind = iota
	// MatchSubdomain means the leftmost label is a candidate site slug.
	MatchSubdomain
	// MatchCustomDomain means the full host is a candidate custom domain.
	MatchCustomDomain
)

// HostMatch is the result of classifying one Host header.
type HostMatch struct {
	Kind   MatchKind
	Slug   string // set for MatchSubdomain
	Domain string // set for MatchCustomDomain
	Host   string // port-stripped, lowercased input
}

// HostRules carries the injected routing configuration.
type HostRules struct {
	RootDomain    string
	PreviewDomain string
	reserved      map[string]struct{}
}

// NewHostRules builds rules from config values.  Domains are compared
// case-insensitively.
func NewHostRules(rootDomain, previewDomain string, reservedSubdomains []string) HostRules {
	r := HostRules{
		RootDomain:    strings.ToLower(rootDomain),
		PreviewDomain: strings.ToLower(previewDomain),
		reserved:      make(map[string]struct{}, len(reservedSubdomains)),
	}
	for _, s := range reservedSubdomains {
		r.reserved[strings.ToLower(s)] = struct{}{}
	}
	return r
}

// Classify maps a raw Host header to a HostMatch.
func (r HostRules) Classify(rawHost string) HostMatch {
	host := strings.ToLower(StripPort(rawHost))
	m := HostMatch{Kind: MatchNone, Host: host}

	if host == "" || host == "localhost" {
		return m
	}
	// Bare IP literals (IPv4 or bracket-stripped IPv6) are never tenants.
	if net.ParseIP(host) != nil {
		return m
	}

	// Subdomain path: {label}.{rootDomain} with a non-reserved label.
	if r.RootDomain != "" && strings.HasSuffix(host, "."+r.RootDomain) {
		label := strings.TrimSuffix(host, "."+r.RootDomain)
		if label == "" || strings.Contains(label, ".") {
			// Nested labels (a.b.root) are not tenant hosts.
			return m
		}
		if _, ok := r.reserved[label]; ok {
			return m
		}
		m.Kind = MatchSubdomain
		m.Slug = label
		return m
	}

	// The apex itself is the main app.
	if host == r.RootDomain {
		return m
	}

	// Platform-internal preview hosts never map to a tenant.
	if r.PreviewDomain != "" &&
		(host == r.PreviewDomain || strings.HasSuffix(host, "."+r.PreviewDomain)) {
		return m
	}

	m.Kind = MatchCustomDomain
	m.Domain = host
	return m
}

// StripPort removes any “:port” suffix from a Host header, handling
// bracketed IPv6 literals.
func StripPort(h string) string {
	if host, _, err := net.SplitHostPort(h); err == nil {
		return host
	}
	return strings.Trim(h, "[]")
}
