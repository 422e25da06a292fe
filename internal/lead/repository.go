// internal/lead/repository.go
//
// Lead-table query helpers.  One parameterised statement each; errors
// return verbatim for the handler to map.
package lead

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Insert persists a new lead.  The caller fills every field except ID and
// CreatedAt.
func Insert(ctx context.Context, db *sqlx.DB, l *Record) error {
	const q = `
        INSERT INTO lead
               (public_id, site_id, name, email, phone, message,
                source_path, status, user_agent, device, country_iso)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, q,
		l.PublicID, l.SiteID, l.Name, l.Email, l.Phone, l.Message,
		l.SourcePath, l.Status, l.UserAgent, l.Device, l.CountryISO)
	return err
}

// UpdateStatus changes the status of one lead, scoped to its site so a
// public id can never be replayed across tenants.  Returns the number of
// affected rows; zero means no such lead.
func UpdateStatus(ctx context.Context, db *sqlx.DB, siteID uint64, publicID, status string) (int64, error) {
	const q = `
        UPDATE lead
        SET    status = ?
        WHERE  site_id = ? AND public_id = ?`
	res, err := db.ExecContext(ctx, q, status, siteID, publicID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListBySite returns a site's leads, newest first, optionally filtered by
// status.  Used by the dashboard.
func ListBySite(ctx context.Context, db *sqlx.DB, siteID uint64, status string) ([]Record, error) {
	var rows []Record
	if status != "" {
		const q = `
        SELECT id, public_id, site_id, name, email, phone, message,
               source_path, status, user_agent, device, country_iso, created_at
        FROM   lead
        WHERE  site_id = ? AND status = ?
        ORDER  BY created_at DESC`
		if err := db.SelectContext(ctx, &rows, q, siteID, status); err != nil {
			return nil, err
		}
		return rows, nil
	}
	const q = `
        SELECT id, public_id, site_id, name, email, phone, message,
               source_path, status, user_agent, device, country_iso, created_at
        FROM   lead
        WHERE  site_id = ?
        ORDER  BY created_at DESC`
	if err := db.SelectContext(ctx, &rows, q, siteID); err != nil {
		return nil, err
	}
	return rows, nil
}
