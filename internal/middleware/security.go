// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects industry-standard headers on every response:
//
//   • Strict-Transport-Security  –  forces HTTPS (2 years + preload)
//   • X-Frame-Options            –  click-jacking defence
//   • X-Content-Type-Options     –  MIME-sniffing defence
//   • Referrer-Policy            –  drops path/query from Referer
//   • Permissions-Policy         –  disables powerful features by default
//
// Tenant pages embed their own media, so no Content-Security-Policy is
// set here; per-site CSP belongs to the rendering layer.
//
// Notes
// -----
// • Headers are added after next.ServeHTTP so handlers may set
//   Content-Type first; the middleware never overwrites an existing
//   value.
// • Behind a TLS-terminating proxy HSTS is still useful because browsers
//   see the tenant’s domain as HTTPS.

package middleware

import "net/http"

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	const (
		hsts  = "max-age=63072000; includeSubDomains; preload"
		xfo   = "DENY"
		nosn  = "nosniff"
		refer = "strict-origin-when-cross-origin"
		perm  = "geolocation=(), microphone=(), camera=()"
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)

		set := func(k, v string) {
			if w.Header().Get(k) == "" {
				w.Header().Set(k, v)
			}
		}
		set("Strict-Transport-Security", hsts)
		set("X-Frame-Options", xfo)
		set("X-Content-Type-Options", nosn)
		set("Referrer-Policy", refer)
		set("Permissions-Policy", perm)
	})
}
