// internal/tenant/entry.go
//
// Tenant cache entry and aggregate.
//
// Context
// -------
// A live Tenant aggregates everything the edge middleware needs to route
// one site: its `site` row, the key-value settings map, and (for
// multi-location sites) the ordered location slugs used to detect a
// location prefix.  The cache stores a pointer to Tenant inside `entry`,
// along with a `lastSeen` UnixNano timestamp used by the evictor for idle
// and LRU eviction and a `loadedAt` timestamp used for freshness — status
// pages may lag live state by at most the cache's fresh TTL.
//
// Notes
// -----
//   - Handlers must treat Tenant as immutable after load; a status change
//     becomes visible when the entry next refreshes.
//   - Oxford commas, two spaces after periods.
package tenant

import (
	"time"

	"github.com/siloserve/siloserve/internal/site"
)

//
// Cache entry
//

type entry struct {
	tenant   *Tenant
	lastSeen int64 // UnixNano, atomic
}

//
// Tenant aggregate
//

// Tenant groups the per-site routing state needed by request handlers.
type Tenant struct {
	Site          site.Record
	Settings      map[string]string
	LocationSlugs []string // ordered, primary first; nil unless multi-location

	loadedAt time.Time
}

// HasLocation reports whether slug names one of this site's locations.
func (t *Tenant) HasLocation(slug string) bool {
	for _, s := range t.LocationSlugs {
		if s == slug {
			return true
		}
	}
	return false
}

// fresh reports whether the entry is younger than ttl.
func (t *Tenant) fresh(ttl time.Duration, now time.Time) bool {
	return now.Sub(t.loadedAt) <= ttl
}
