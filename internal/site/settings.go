// internal/site/settings.go
//
// Helpers for fetching key-value settings from the `site_setting` table
// (industry, phone, brand color, logo URL, and similar free-form pairs).
// The query runs once when the tenant is loaded, and the resulting map is
// cached in memory alongside the tenant entry.
package site

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// SettingsBySite returns a map[key]value for one site_id.
func SettingsBySite(ctx context.Context, db *sqlx.DB, siteID uint64) (map[string]string, error) {
	const q = `
	    SELECT  ` + "`key`, value" + `
	    FROM    site_setting
	    WHERE   site_id = ?`
	rows := make([]struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}, 0, 8) // small default cap

	if err := db.SelectContext(ctx, &rows, q, siteID); err != nil {
		return nil, err
	}

	settings := make(map[string]string, len(rows))
	for _, r := range rows {
		settings[r.Key] = r.Value
	}
	return settings, nil
}
