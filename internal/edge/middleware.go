// internal/edge/middleware.go
//
// Edge request router.
//
// Context
// -------
// Runs on every inbound request except a fixed allow-list of internal and
// static paths.  The flow per request:
//
//   1. Classify the host (subdomain, custom domain, or platform).
//   2. Resolve the tenant through the cache; no match rewrites to the
//      global domain-not-found page.
//   3. Non-active sites rewrite to their status page and stop.
//   4. Active multi-location sites with a known location prefix rewrite
//      to /sites/{slug}/locations/{loc}/{rest}.
//   5. Everything else rewrites to /sites/{slug}/{path}.
//
// All rewrites are internal path substitutions, never HTTP redirects —
// the externally visible URL is the canonical SEO URL and must not
// change.  Every branch terminates in a rewrite or a delegation; a
// failure here never surfaces as a platform-default error page.
//
// Dashboard and auth paths delegate to the session-refresh collaborator
// and stop; routing plays no part there.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.
package edge

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/siloserve/siloserve/internal/metrics"
	"github.com/siloserve/siloserve/internal/tenant"
)

// Rewrite outcomes for metrics and debug logs.
const (
	outcomeContent        = "content"
	outcomeLocation       = "location"
	outcomeStatusPage     = "status_page"
	outcomeDomainNotFound = "domain_not_found"
	outcomePassthrough    = "passthrough"
)

// skipPrefixes are paths the edge router never touches: build assets,
// API routes, metrics, and already-canonicalized internal paths.
var skipPrefixes = []string{
	"/sites/",
	"/api/",
	"/_assets/",
	"/metrics",
	"/favicon.ico",
	"/robots.txt",
	"/domain-not-found",
}

// dashboardPrefixes form the auth dashboard tree, delegated wholesale to
// the session-refresh collaborator.
var dashboardPrefixes = []string{
	"/dashboard",
	"/login",
	"/signup",
	"/auth",
}

// Middleware is the edge router.  Session is the external session-refresh
// collaborator for dashboard paths; nil falls through to the next
// handler.
type Middleware struct {
	Cache   *tenant.Cache
	Rules   tenant.HostRules
	Session http.Handler
}

// Handler wraps next with the rewrite flow.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if hasAnyPrefix(path, skipPrefixes) {
			next.ServeHTTP(w, r)
			return
		}
		if hasAnyPrefix(path, dashboardPrefixes) {
			if m.Session != nil {
				m.Session.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		match := m.Rules.Classify(r.Host)
		if match.Kind == tenant.MatchNone {
			// Platform-owned host (apex, reserved subdomain, preview,
			// localhost): the main app tree handles it.
			metrics.EdgeRewriteTotal.WithLabelValues(outcomePassthrough).Inc()
			next.ServeHTTP(w, r)
			return
		}

		ten, err := m.Cache.Get(r.Context(), match)
		if err != nil {
			if err != tenant.ErrNotFound {
				zap.L().Error("tenant resolve failed",
					zap.String("host", match.Host), zap.Error(err))
			}
			metrics.EdgeRewriteTotal.WithLabelValues(outcomeDomainNotFound).Inc()
			rewrite(r, DomainNotFoundPath)
			next.ServeHTTP(w, r)
			return
		}

		slug := ten.Site.Slug

		// Non-active statuses gate every sub-path to the status page.
		if seg, gated := StatusPageSegment(ten.Site.Status); gated {
			metrics.EdgeRewriteTotal.WithLabelValues(outcomeStatusPage).Inc()
			metrics.StatusPageTotal.WithLabelValues(ten.Site.Status).Inc()
			rewrite(r, "/sites/"+slug+"/"+seg)
			next.ServeHTTP(w, r)
			return
		}

		// Location prefix detection for multi-location sites.
		if ten.Site.IsMultiLocation() {
			first, rest := splitFirstSegment(path)
			if first != "" && ten.HasLocation(first) {
				metrics.EdgeRewriteTotal.WithLabelValues(outcomeLocation).Inc()
				rewrite(r, "/sites/"+slug+"/locations/"+first+rest)
				next.ServeHTTP(w, r)
				return
			}
			// No location match: address the site directly.  Only valid
			// for static/global paths; anything else 404s downstream.
		}

		metrics.EdgeRewriteTotal.WithLabelValues(outcomeContent).Inc()
		rewrite(r, "/sites/"+slug+path)
		next.ServeHTTP(w, r)
	})
}

// rewrite substitutes the internal path, leaving the visible URL alone.
func rewrite(r *http.Request, target string) {
	original := r.URL.Path
	r.URL.Path = target
	r.RequestURI = target
	zap.L().Debug("edge rewrite",
		zap.String("host", r.Host),
		zap.String("from", original),
		zap.String("to", target))
}

// splitFirstSegment returns the first path segment and the remainder
// (with its leading slash).  "/austin/plumbing" → ("austin", "/plumbing").
func splitFirstSegment(path string) (first, rest string) {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return "", ""
	}
	if i := strings.IndexByte(trimmed, '/'); i != -1 {
		return trimmed[:i], trimmed[i:]
	}
	return trimmed, ""
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
