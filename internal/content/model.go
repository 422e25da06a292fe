// internal/content/model.go
//
// Row models for the content entities a tenant site serves: locations,
// categories (site-scoped associations to the GBP taxonomy), services,
// service areas, and neighborhoods.
//
// Context
// -------
// All five tables hang off `site` with ON DELETE CASCADE; a site deletion
// removes its content wholesale.  Slug scopes differ per entity and
// matter to the resolver:
//
//   • location.slug      unique per site
//   • site_category      one primary per site, ordered by sort_order
//   • service.slug       unique per (category); the top-level URL segment
//     a service occupies is additionally kept collision-free against
//     secondary category slugs by the wizard
//   • service_area.slug  unique per site
//   • neighborhood.slug  unique per (site, optional location)
//
// Notes
// -----
// • Category carries its taxonomy join columns (machine name + display
//   name) because slug matching must accept both historical spellings.
// • Services are soft-hidden via `active`, never deleted from here.
package content

import "time"

// Location is one physical location of a site.  Exactly one per site is
// primary; single-location and microsite layouts have a sole, implicitly
// primary row.
type Location struct {
	ID        uint64    `db:"id"`
	SiteID    uint64    `db:"site_id"`
	Slug      string    `db:"slug"`
	Name      string    `db:"name"`
	IsPrimary bool      `db:"is_primary"`
	SortOrder int       `db:"sort_order"`
	CreatedAt time.Time `db:"created_at"`
}

// Category associates a site with one GBP taxonomy entry.  TaxonomyName
// and DisplayName come from the `gbp_category` join.
type Category struct {
	ID            uint64    `db:"id"`
	SiteID        uint64    `db:"site_id"`
	GBPCategoryID uint64    `db:"gbp_category_id"`
	Slug          string    `db:"slug"`
	IsPrimary     bool      `db:"is_primary"`
	SortOrder     int       `db:"sort_order"`
	TaxonomyName  string    `db:"taxonomy_name"`
	DisplayName   string    `db:"display_name"`
	CreatedAt     time.Time `db:"created_at"`
}

// Service is one offered service, belonging to exactly one category.
type Service struct {
	ID         uint64    `db:"id"`
	SiteID     uint64    `db:"site_id"`
	CategoryID uint64    `db:"category_id"`
	Slug       string    `db:"slug"`
	Name       string    `db:"name"`
	Active     bool      `db:"active"`
	SortOrder  int       `db:"sort_order"`
	CreatedAt  time.Time `db:"created_at"`
}

// ServiceArea is one town or region the business serves.
type ServiceArea struct {
	ID        uint64    `db:"id"`
	SiteID    uint64    `db:"site_id"`
	Slug      string    `db:"slug"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// Neighborhood is a finer-grained area, optionally scoped to one
// location of a multi-location site (LocationID nil = site-wide).
type Neighborhood struct {
	ID         uint64    `db:"id"`
	SiteID     uint64    `db:"site_id"`
	LocationID *uint64   `db:"location_id"`
	Slug       string    `db:"slug"`
	Name       string    `db:"name"`
	CreatedAt  time.Time `db:"created_at"`
}
