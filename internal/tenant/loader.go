// internal/tenant/loader.go
//
// Host match → *Tenant.  Steps:
//
//  1. Fetch the site row by slug (subdomain) or by verified custom
//     domain.  Unverified domains fall through to not-found.
//  2. Fetch key-value settings.
//  3. For multi-location sites, fetch the ordered location slugs.
package tenant

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/siloserve/siloserve/internal/site"
)

func loadTenant(ctx context.Context, db *sqlx.DB, m HostMatch) (*Tenant, error) {
	var (
		rec *site.Record
		err error
	)
	switch m.Kind {
	case MatchSubdomain:
		rec, err = site.BySlug(ctx, db, m.Slug)
	case MatchCustomDomain:
		rec, err = site.ByCustomDomain(ctx, db, m.Domain)
	default:
		return nil, ErrNotFound
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	settings, err := site.SettingsBySite(ctx, db, rec.ID)
	if err != nil {
		return nil, err
	}

	var slugs []string
	if rec.IsMultiLocation() {
		slugs, err = site.LocationSlugs(ctx, db, rec.ID)
		if err != nil {
			return nil, err
		}
	}

	return &Tenant{
		Site:          *rec,
		Settings:      settings,
		LocationSlugs: slugs,
		loadedAt:      time.Now(),
	}, nil
}
