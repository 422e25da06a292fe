// internal/site/model.go
//
// `site` table row model and lifecycle vocabulary.
//
// Context
// -------
// The `Record` struct mirrors one row in the persistent **site** table:
// tenant identity (slug, optional custom domain), lifecycle status, site
// layout, and the build-progress snapshot maintained by the out-of-process
// content generator.  It is used by the tenant loader to build the
// in-memory cache and by the lifecycle API.
//
// Schema reference (2026-07-12)
//
//	CREATE TABLE site (
//	    id                     INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    org_id                 INT UNSIGNED NOT NULL,
//	    slug                   VARCHAR(64)   NOT NULL UNIQUE,
//	    custom_domain          VARCHAR(256)  NULL,
//	    custom_domain_verified TINYINT(1)    NOT NULL DEFAULT 0,
//	    status                 VARCHAR(16)   NOT NULL DEFAULT 'building',
//	    status_message         VARCHAR(512)  NULL,
//	    status_updated_at      TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    website_type           VARCHAR(16)   NOT NULL DEFAULT 'single_location',
//	    build_tasks_done       INT           NOT NULL DEFAULT 0,
//	    build_tasks_total      INT           NOT NULL DEFAULT 0,
//	    build_current_task     VARCHAR(256)  NOT NULL DEFAULT '',
//	    build_started_at       TIMESTAMP     NULL,
//	    deleted_at             TIMESTAMP     NULL,
//	    created_at             TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    updated_at             TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
//
// Notes
// -----
// • `slug` is globally unique and immutable after creation.
// • `custom_domain` uniqueness is enforced among verified rows only; an
//   unverified domain never routes (fail closed).
// • A user's access to a Site is derived through Organization membership
//   (org_id); it is never stored redundantly here.
// • Nullable columns are pointer types; callers must nil-check.
// • This struct contains no behaviour beyond tiny layout predicates.
package site

import "time"

// Lifecycle statuses.
const (
	StatusBuilding  = "building"
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusFailed    = "failed"
	StatusSuspended = "suspended"
)

// Website layouts.
const (
	TypeSingleLocation = "single_location"
	TypeMultiLocation  = "multi_location"
	TypeMicrosite      = "microsite"
)

// Record mirrors one row in the `site` table.
type Record struct {
	ID                   uint64     `db:"id"`
	OrgID                uint64     `db:"org_id"`
	Slug                 string     `db:"slug"`
	CustomDomain         *string    `db:"custom_domain"`
	CustomDomainVerified bool       `db:"custom_domain_verified"`
	Status               string     `db:"status"`
	StatusMessage        *string    `db:"status_message"`
	StatusUpdatedAt      time.Time  `db:"status_updated_at"`
	WebsiteType          string     `db:"website_type"`
	BuildTasksDone       int        `db:"build_tasks_done"`
	BuildTasksTotal      int        `db:"build_tasks_total"`
	BuildCurrentTask     string     `db:"build_current_task"`
	BuildStartedAt       *time.Time `db:"build_started_at"`
	DeletedAt            *time.Time `db:"deleted_at"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
}

// IsMultiLocation reports whether paths for this site carry a location
// prefix.
func (r *Record) IsMultiLocation() bool { return r.WebsiteType == TypeMultiLocation }

// IsActive reports whether the site serves live content.
func (r *Record) IsActive() bool { return r.Status == StatusActive }
