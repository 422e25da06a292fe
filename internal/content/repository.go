// internal/content/repository.go
//
// Query helpers for content entities.
//
// Context
// -------
// The resolver and the page handlers treat the store as opaque key/filter
// lookups: each helper is one parameterised SELECT.  Service lookups are
// always scoped to a concrete category id — never merely to the site —
// which is what keeps identical service slugs in different categories
// from colliding on the nested two-segment path.
//
// Notes
// -----
//   - Inactive services are excluded at SQL level.
//   - Errors are returned verbatim; sql.ErrNoRows is the callers' signal
//     for "not found" and is mapped by the resolver, not here.
package content

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// LocationBySlug fetches one location of a site.
func LocationBySlug(ctx context.Context, db *sqlx.DB, siteID uint64, slug string) (*Location, error) {
	const q = `
        SELECT id, site_id, slug, name, is_primary, sort_order, created_at
        FROM   location
        WHERE  site_id = ? AND slug = ?
        LIMIT  1`
	var loc Location
	if err := db.GetContext(ctx, &loc, q, siteID, slug); err != nil {
		return nil, err
	}
	return &loc, nil
}

// CategoriesBySite returns every category of a site with its taxonomy
// join, primary first.  The resolver matches segments against this slice
// in memory; sites carry a handful of categories at most.
func CategoriesBySite(ctx context.Context, db *sqlx.DB, siteID uint64) ([]Category, error) {
	const q = `
        SELECT sc.id, sc.site_id, sc.gbp_category_id, sc.slug,
               sc.is_primary, sc.sort_order, sc.created_at,
               g.machine_name AS taxonomy_name,
               g.display_name AS display_name
        FROM   site_category sc
        JOIN   gbp_category g ON g.id = sc.gbp_category_id
        WHERE  sc.site_id = ?
        ORDER  BY sc.is_primary DESC, sc.sort_order, sc.slug`
	var cats []Category
	if err := db.SelectContext(ctx, &cats, q, siteID); err != nil {
		return nil, err
	}
	return cats, nil
}

// ServiceBySlug fetches one active service scoped to a specific category.
func ServiceBySlug(ctx context.Context, db *sqlx.DB, siteID, categoryID uint64, slug string) (*Service, error) {
	const q = `
        SELECT id, site_id, category_id, slug, name, active, sort_order, created_at
        FROM   service
        WHERE  site_id = ? AND category_id = ? AND slug = ? AND active = TRUE
        LIMIT  1`
	var svc Service
	if err := db.GetContext(ctx, &svc, q, siteID, categoryID, slug); err != nil {
		return nil, err
	}
	return &svc, nil
}

// ServicesByCategory returns the active services of one category in sort
// order, for category listing pages.
func ServicesByCategory(ctx context.Context, db *sqlx.DB, categoryID uint64) ([]Service, error) {
	const q = `
        SELECT id, site_id, category_id, slug, name, active, sort_order, created_at
        FROM   service
        WHERE  category_id = ? AND active = TRUE
        ORDER  BY sort_order, slug`
	var svcs []Service
	if err := db.SelectContext(ctx, &svcs, q, categoryID); err != nil {
		return nil, err
	}
	return svcs, nil
}

// AreaBySlug fetches one service area by exact slug within a site.
func AreaBySlug(ctx context.Context, db *sqlx.DB, siteID uint64, slug string) (*ServiceArea, error) {
	const q = `
        SELECT id, site_id, slug, name, created_at
        FROM   service_area
        WHERE  site_id = ? AND slug = ?
        LIMIT  1`
	var area ServiceArea
	if err := db.GetContext(ctx, &area, q, siteID, slug); err != nil {
		return nil, err
	}
	return &area, nil
}

// NeighborhoodBySlug fetches one neighborhood by exact slug.  When a
// location scope is supplied, site-wide rows (NULL location_id) still
// match so shared neighborhoods resolve under every location.
func NeighborhoodBySlug(ctx context.Context, db *sqlx.DB, siteID uint64, locationID *uint64, slug string) (*Neighborhood, error) {
	var n Neighborhood
	if locationID != nil {
		const q = `
        SELECT id, site_id, location_id, slug, name, created_at
        FROM   neighborhood
        WHERE  site_id = ? AND slug = ?
          AND  (location_id = ? OR location_id IS NULL)
        LIMIT  1`
		if err := db.GetContext(ctx, &n, q, siteID, slug, *locationID); err != nil {
			return nil, err
		}
		return &n, nil
	}
	const q = `
        SELECT id, site_id, location_id, slug, name, created_at
        FROM   neighborhood
        WHERE  site_id = ? AND slug = ?
        LIMIT  1`
	if err := db.GetContext(ctx, &n, q, siteID, slug); err != nil {
		return nil, err
	}
	return &n, nil
}
