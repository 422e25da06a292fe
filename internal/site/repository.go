// internal/site/repository.go
//
// Site-table query helpers.
//
// Context
// -------
// Read paths serve the tenant loader (BySlug, ByCustomDomain,
// LocationSlugs); write paths serve the lifecycle API and the build
// pipeline (UpdateStatus, ResetBuild, UpdateBuildProgress).  Writes are
// deliberately last-write-wins: status transitions are infrequent and
// operator-triggered, so the design accepts the race between a user
// pausing and a build-completion callback marking active.
//
// Workflow
// --------
//  1. Callers supply a *sqlx.DB connected to the control-plane database.
//  2. Each helper executes exactly one parameterised statement.
//  3. Errors are returned verbatim so the caller can wrap or log them
//     using the project logger.
//
// Notes
// -----
//   - Column list matches the fields in `Record`; update both together.
//   - Soft-deleted rows are excluded at SQL level to keep callers simple.
//   - Oxford commas, two spaces after periods.
package site

import (
	"context"

	"github.com/jmoiron/sqlx"
)

const recordColumns = `
        id, org_id, slug, custom_domain, custom_domain_verified,
        status, status_message, status_updated_at, website_type,
        build_tasks_done, build_tasks_total, build_current_task,
        build_started_at, deleted_at, created_at, updated_at`

// BySlug fetches a single site row by its subdomain slug.
func BySlug(ctx context.Context, db *sqlx.DB, slug string) (*Record, error) {
	const q = `
        SELECT` + recordColumns + `
        FROM   site
        WHERE  slug = ?
          AND  deleted_at IS NULL
        LIMIT  1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, slug); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ByCustomDomain fetches a site by a verified custom domain.  Unverified
// rows are excluded at SQL level so an attacker pointing DNS at the
// platform can never serve a tenant they have not proven control of.
func ByCustomDomain(ctx context.Context, db *sqlx.DB, domain string) (*Record, error) {
	const q = `
        SELECT` + recordColumns + `
        FROM   site
        WHERE  custom_domain = ?
          AND  custom_domain_verified = TRUE
          AND  deleted_at IS NULL
        LIMIT  1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, domain); err != nil {
		return nil, err
	}
	return &rec, nil
}

// LocationSlugs returns the ordered location slugs for one site, primary
// first.  The edge middleware uses this list to detect a location prefix
// on multi-location sites.
func LocationSlugs(ctx context.Context, db *sqlx.DB, siteID uint64) ([]string, error) {
	const q = `
        SELECT slug
        FROM   location
        WHERE  site_id = ?
        ORDER  BY is_primary DESC, sort_order, slug`
	var slugs []string
	if err := db.SelectContext(ctx, &slugs, q, siteID); err != nil {
		return nil, err
	}
	return slugs, nil
}

// UpdateStatus writes a new lifecycle status, stamping
// status_updated_at.  message may be nil to clear any prior message.
// Transition legality is the caller's job (see Lifecycle).
func UpdateStatus(ctx context.Context, db *sqlx.DB, siteID uint64, status string, message *string) error {
	const q = `
        UPDATE site
        SET    status = ?, status_message = ?, status_updated_at = NOW(),
               updated_at = NOW()
        WHERE  id = ?`
	_, err := db.ExecContext(ctx, q, status, message, siteID)
	return err
}

// ResetBuild forces a site back into `building` with a fresh task count,
// zeroed progress, and no status message.  Used by the retry operation
// after the staleness window has passed.
func ResetBuild(ctx context.Context, db *sqlx.DB, siteID uint64, totalTasks int) error {
	const q = `
        UPDATE site
        SET    status = ?, status_message = NULL, status_updated_at = NOW(),
               build_tasks_done = 0, build_tasks_total = ?,
               build_current_task = '', build_started_at = NOW(),
               updated_at = NOW()
        WHERE  id = ?`
	_, err := db.ExecContext(ctx, q, StatusBuilding, totalTasks, siteID)
	return err
}

// UpdateBuildProgress records one step of the out-of-process generator.
// It also bumps status_updated_at, which is what keeps a healthy build
// from being classified as stuck.
func UpdateBuildProgress(ctx context.Context, db *sqlx.DB, siteID uint64, done, total int, currentTask string) error {
	const q = `
        UPDATE site
        SET    build_tasks_done = ?, build_tasks_total = ?,
               build_current_task = ?, status_updated_at = NOW(),
               updated_at = NOW()
        WHERE  id = ? AND status = ?`
	_, err := db.ExecContext(ctx, q, done, total, currentTask, siteID, StatusBuilding)
	return err
}
