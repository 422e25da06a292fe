// internal/routing/paths.go
//
// Canonical URL construction.
//
// Context
// -------
// Every public URL on a tenant site is produced here and only here; the
// content resolver (internal/content) is the inverse mapping, and the two
// must stay in lock-step.  The revalidation endpoint consumes these same
// canonical paths, so a change to any rule below must be mirrored there.
//
// Rules
// -----
//   • Multi-location sites prefix every path with /{locationSlug}; single
//     location and microsite layouts have no prefix and "/" is the home
//     page of the sole, implicit primary location.
//   • The primary category page IS the home page — same URL, no separate
//     segment.  Secondary categories get /{category}.
//   • Services under the primary category are top-level (/{service});
//     services under a secondary category nest (/{category}/{service}).
//   • Service areas and neighborhoods occupy their own namespaces
//     (/areas/…, /neighborhoods/…); static pages are fixed final segments.
//
// No function may special-case a slug value; behaviour depends only on
// position and primary flags.
//
// Notes
// -----
//   • Pure functions, no I/O.
//   • Oxford commas, two spaces after periods.

package routing

import "strings"

// Topology is the slice of site layout the path builder needs: whether
// the site serves multiple locations and, if so, which location the path
// is scoped to.  LocationSlug is ignored for single-location layouts.
type Topology struct {
	MultiLocation bool
	LocationSlug  string
}

// Static page segments.
const (
	PageAbout   = "about"
	PageContact = "contact"
	PageJobs    = "jobs"
	PageWork    = "work"
)

// Namespace segments for area and neighborhood pages.
const (
	SegmentAreas         = "areas"
	SegmentNeighborhoods = "neighborhoods"
)

// base returns the location prefix ("" or "/{loc}") for a topology.
func base(t Topology) string {
	if t.MultiLocation && t.LocationSlug != "" {
		return "/" + t.LocationSlug
	}
	return ""
}

// Home returns "/" for single-location layouts, or "/{loc}" for
// multi-location ones.
func Home(t Topology) string {
	if b := base(t); b != "" {
		return b
	}
	return "/"
}

// Category returns the page path for a category.  A primary category is
// aliased to the location home; a secondary category gets its own
// segment.
func Category(t Topology, slug string, primary bool) string {
	if primary {
		return Home(t)
	}
	return BuildPath(base(t), slug)
}

// Service returns the page path for a service.  Services whose category
// is primary are top-level; otherwise they nest under the category.
func Service(t Topology, categorySlug string, categoryPrimary bool, serviceSlug string) string {
	if categoryPrimary {
		return BuildPath(base(t), serviceSlug)
	}
	return BuildPath(base(t), categorySlug+"/"+serviceSlug)
}

// AreaIndex returns the service-area index path.
func AreaIndex(t Topology) string {
	return BuildPath(base(t), SegmentAreas)
}

// Area returns the page path for one service area.
func Area(t Topology, slug string) string {
	return BuildPath(base(t), SegmentAreas+"/"+slug)
}

// NeighborhoodIndex returns the neighborhood index path.
func NeighborhoodIndex(t Topology) string {
	return BuildPath(base(t), SegmentNeighborhoods)
}

// Neighborhood returns the page path for one neighborhood.
func Neighborhood(t Topology, slug string) string {
	return BuildPath(base(t), SegmentNeighborhoods+"/"+slug)
}

// Static returns the path for a fixed informational page (about,
// contact, jobs, or the work hub).
func Static(t Topology, page string) string {
	return BuildPath(base(t), page)
}

// WorkDetail returns the path for one entry under the work hub.
func WorkDetail(t Topology, slug string) string {
	return BuildPath(base(t), PageWork+"/"+slug)
}

// BuildPath joins parent + suffix ensuring exactly one leading slash and
// no duplicate separators.
func BuildPath(parent, suffix string) string {
	parent = strings.Trim(parent, "/")
	suffix = strings.Trim(suffix, "/")

	switch {
	case parent == "" && suffix == "":
		return "/"
	case parent == "":
		return "/" + suffix
	case suffix == "":
		return "/" + parent
	default:
		return "/" + parent + "/" + suffix
	}
}
