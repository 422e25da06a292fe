// internal/edge/statuspage.go
//
// Status-page selection.  For each non-active lifecycle status a fixed
// internal page exists under the site's namespace, plus one global page
// for hosts that match no tenant.  The pages themselves are static
// content collaborators (internal/pages); this mapping is the router's
// whole contract with them: exactly one page per status value.
package edge

import "github.com/siloserve/siloserve/internal/site"

// Internal page segments for non-active statuses.
const (
	PageComingSoon  = "coming-soon"
	PageMaintenance = "maintenance"
	PageBuildError  = "build-error"
	PageSuspended   = "suspended"
)

// DomainNotFoundPath is the global page served when no tenant matches the
// host.  Served with HTTP 200: a misconfigured-DNS scenario the tenant
// can fix deserves an explanation, not a bare error.
const DomainNotFoundPath = "/domain-not-found"

// StatusPageSegment maps a non-active status to its page segment.  The
// boolean is false for `active` (no status page applies).
func StatusPageSegment(status string) (string, bool) {
	switch status {
	case site.StatusBuilding:
		return PageComingSoon, true
	case site.StatusPaused:
		return PageMaintenance, true
	case site.StatusFailed:
		return PageBuildError, true
	case site.StatusSuspended:
		return PageSuspended, true
	default:
		return "", false
	}
}
