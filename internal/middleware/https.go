// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"

	"github.com/siloserve/siloserve/internal/tenant"
)

// ForceHTTPS wraps h.  If the request is plain HTTP and the host resolves
// to a known tenant, the wrapper issues a 308 Permanent Redirect to the
// HTTPS version of the same URL.  Platform hosts and unknown domains keep
// the normal flow (the edge router explains those itself).
func ForceHTTPS(cache *tenant.Cache, rules tenant.HostRules, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Already HTTPS or dev host → continue.
		if r.TLS != nil || tenant.StripPort(r.Host) == "localhost" {
			h.ServeHTTP(w, r)
			return
		}

		// Only redirect when the host maps to an actual site.
		match := rules.Classify(r.Host)
		if _, err := cache.Get(r.Context(), match); err == nil {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
			return
		}

		h.ServeHTTP(w, r)
	})
}
