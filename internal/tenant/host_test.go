// internal/tenant/host_test.go
//
// Unit-tests for host classification.
//
// Context
// -------
// The classifier decides which of three routes a Host header takes:
// subdomain tenant, custom-domain tenant, or platform-owned.  The rules
// (root domain, preview domain, reserved subdomains) are injected, so
// these tests run without any environment coupling.

package tenant

import "testing"

func testRules() HostRules {
	return NewHostRules("platform.com", "preview.platform.app",
		[]string{"www", "admin", "app", "api"})
}

func TestClassify(t *testing.T) {
	rules := testRules()

	cases := []struct {
		host string
		kind MatchKind
		slug string
		dom  string
	}{
		// Subdomain tenants.
		{"acme.platform.com", MatchSubdomain, "acme", ""},
		{"acme.platform.com:8080", MatchSubdomain, "acme", ""},
		{"BigCo.Platform.Com", MatchSubdomain, "bigco", ""},

		// Reserved labels and the apex are platform-owned.
		{"www.platform.com", MatchNone, "", ""},
		{"admin.platform.com", MatchNone, "", ""},
		{"app.platform.com", MatchNone, "", ""},
		{"api.platform.com", MatchNone, "", ""},
		{"platform.com", MatchNone, "", ""},

		// Nested labels never map to a tenant.
		{"a.b.platform.com", MatchNone, "", ""},

		// Preview hosts, localhost, and IP literals are platform-owned.
		{"preview.platform.app", MatchNone, "", ""},
		{"pr-42.preview.platform.app", MatchNone, "", ""},
		{"localhost", MatchNone, "", ""},
		{"localhost:3000", MatchNone, "", ""},
		{"203.0.113.9", MatchNone, "", ""},
		{"[2001:db8::1]:443", MatchNone, "", ""},

		// Everything else is a custom-domain candidate.
		{"acmehvac.com", MatchCustomDomain, "", "acmehvac.com"},
		{"www.acmehvac.com", MatchCustomDomain, "", "www.acmehvac.com"},
		{"acmehvac.com:443", MatchCustomDomain, "", "acmehvac.com"},
	}

	for _, c := range cases {
		m := rules.Classify(c.host)
		if m.Kind != c.kind {
			t.Errorf("Classify(%q).Kind = %v, want %v", c.host, m.Kind, c.kind)
			continue
		}
		if m.Slug != c.slug {
			t.Errorf("Classify(%q).Slug = %q, want %q", c.host, m.Slug, c.slug)
		}
		if m.Domain != c.dom {
			t.Errorf("Classify(%q).Domain = %q, want %q", c.host, m.Domain, c.dom)
		}
	}
}

func TestStripPort(t *testing.T) {
	cases := []struct{ in, want string }{
		{"acme.platform.com:8080", "acme.platform.com"},
		{"acme.platform.com", "acme.platform.com"},
		{"[::1]:443", "::1"},
		{"localhost", "localhost"},
	}
	for _, c := range cases {
		if got := StripPort(c.in); got != c.want {
			t.Errorf("StripPort(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
