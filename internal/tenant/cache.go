// internal/tenant/cache.go
//
// Host-keyed tenant cache.
//
// Context
// -------
// The edge middleware resolves tenants on every request; this cache keeps
// those lookups off the database while bounding staleness.  Entries are
// keyed by the port-stripped host, loaded through singleflight so a
// stampede of first requests performs one query, and refreshed once they
// age past freshTTL — a paused site therefore starts serving its
// maintenance page within one TTL window.  Idle and LRU eviction run in
// the background (see evictor.go).
package tenant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/singleflight"

	"github.com/siloserve/siloserve/internal/metrics"
)

// Static defaults; cmd/web overrides them from config.
const (
	FreshTTL      = 30 * time.Second
	IdleTTL       = 30 * time.Minute
	MaxEntries    = 500
	EvictInterval = 5 * time.Minute
)

// ErrNotFound is returned when a host matches no site: unknown slug,
// absent custom domain, or a custom domain that is not verified.
var ErrNotFound = errors.New("tenant not found")

// Cache lazily loads tenants, stores them in a sync.Map, refreshes stale
// entries, and evicts them on idle TTL or LRU pressure.
type Cache struct {
	db          *sqlx.DB
	sfg         singleflight.Group
	m           sync.Map
	evictTicker *time.Ticker
	freshTTL    time.Duration
	idleTTL     time.Duration
	maxEntries  int
}

// New constructs a Cache and starts the background evictor.
func New(db *sqlx.DB, freshTTL, idleTTL time.Duration, maxEntries int) *Cache {
	if freshTTL <= 0 {
		freshTTL = FreshTTL
	}
	if idleTTL <= 0 {
		idleTTL = IdleTTL
	}
	if maxEntries <= 0 {
		maxEntries = MaxEntries
	}
	c := &Cache{
		db:         db,
		freshTTL:   freshTTL,
		idleTTL:    idleTTL,
		maxEntries: maxEntries,
	}
	c.evictTicker = time.NewTicker(EvictInterval)
	go c.evictLoop()
	return c
}

// Get returns the Tenant for a classified host match, loading or
// refreshing it on demand.  MatchNone inputs return ErrNotFound.
func (c *Cache) Get(ctx context.Context, m HostMatch) (*Tenant, error) {
	if m.Kind == MatchNone {
		return nil, ErrNotFound
	}

	now := time.Now()
	if v, ok := c.m.Load(m.Host); ok {
		ent := v.(*entry)
		if ent.tenant.fresh(c.freshTTL, now) {
			atomic.StoreInt64(&ent.lastSeen, now.UnixNano())
			return ent.tenant, nil
		}
		// Stale: fall through to a singleflight reload.
	}

	v, err, _ := c.sfg.Do(m.Host, func() (interface{}, error) {
		// Double-check after the singleflight barrier.
		if v, ok := c.m.Load(m.Host); ok {
			ent := v.(*entry)
			if ent.tenant.fresh(c.freshTTL, time.Now()) {
				atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
				return ent.tenant, nil
			}
		}
		ten, err := loadTenant(ctx, c.db, m)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				metrics.TenantLoadErrorsTotal.Inc()
			}
			// A stale row going not-found also evicts the old entry, so a
			// deleted site stops serving within one TTL window.
			if _, had := c.m.LoadAndDelete(m.Host); had {
				metrics.ActiveTenants.Dec()
			}
			return nil, err
		}
		_, replacing := c.m.Load(m.Host)
		c.m.Store(m.Host, &entry{
			tenant:   ten,
			lastSeen: time.Now().UnixNano(),
		})
		metrics.TenantLoadTotal.Inc()
		if !replacing {
			metrics.ActiveTenants.Inc()
		}
		return ten, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Tenant), nil
}

// Invalidate drops one host from the cache so the next request reloads.
// The lifecycle API calls this after a status write to shrink the window
// in which the old status page is still served.
func (c *Cache) Invalidate(host string) {
	if _, had := c.m.LoadAndDelete(StripPort(host)); had {
		metrics.ActiveTenants.Dec()
	}
}
