// internal/lead/model.go
//
// `lead` table row model.
//
// Context
// -------
// Leads are append-only from the public side: visitors create them
// through the submission endpoint, and afterwards the status column is
// the only externally mutable field.  Each row carries the request
// metadata captured at submission time (user agent, device, country) so
// site owners can judge lead quality.
//
// Schema reference (2026-07-12)
//
//	CREATE TABLE lead (
//	    id          INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    public_id   CHAR(36)     NOT NULL UNIQUE,
//	    site_id     INT UNSIGNED NOT NULL,
//	    name        VARCHAR(256) NOT NULL,
//	    email       VARCHAR(256) NOT NULL DEFAULT '',
//	    phone       VARCHAR(64)  NOT NULL DEFAULT '',
//	    message     TEXT         NULL,
//	    source_path VARCHAR(512) NOT NULL DEFAULT '',
//	    status      VARCHAR(16)  NOT NULL DEFAULT 'new',
//	    user_agent  VARCHAR(512) NOT NULL DEFAULT '',
//	    device      VARCHAR(32)  NOT NULL DEFAULT '',
//	    country_iso CHAR(2)      NOT NULL DEFAULT '',
//	    created_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
//
// Notes
// -----
// • public_id is a UUID handed to the dashboard; the numeric id never
//   leaves the database layer.
package lead

import "time"

// Lead statuses.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusConverted = "converted"
	StatusArchived  = "archived"
)

// validStatuses gates the PATCH endpoint.
var validStatuses = map[string]struct{}{
	StatusNew:       {},
	StatusContacted: {},
	StatusConverted: {},
	StatusArchived:  {},
}

// ValidStatus reports whether s is a known lead status.
func ValidStatus(s string) bool {
	_, ok := validStatuses[s]
	return ok
}

// Record mirrors one row in the `lead` table.
type Record struct {
	ID         uint64    `db:"id"`
	PublicID   string    `db:"public_id"`
	SiteID     uint64    `db:"site_id"`
	Name       string    `db:"name"`
	Email      string    `db:"email"`
	Phone      string    `db:"phone"`
	Message    *string   `db:"message"`
	SourcePath string    `db:"source_path"`
	Status     string    `db:"status"`
	UserAgent  string    `db:"user_agent"`
	Device     string    `db:"device"`
	CountryISO string    `db:"country_iso"`
	CreatedAt  time.Time `db:"created_at"`
}
