// internal/revalidate/cache.go
//
// Render-cache invalidation backend.
//
// Context
// -------
// Rendered pages are cached in Redis by the rendering front end under
// keys of the form `render:{siteSlug}:{canonicalPath}`.  The revalidation
// endpoint deletes those keys; the next request re-renders.  Because the
// keys embed canonical paths, this package's input shape is exactly the
// output of internal/routing — the two must change together.
package revalidate

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "render:"

// RenderCache wraps the Redis client used for invalidation.
type RenderCache struct {
	rdb *redis.Client
}

// NewRenderCache builds a RenderCache over an existing client.
func NewRenderCache(rdb *redis.Client) *RenderCache {
	return &RenderCache{rdb: rdb}
}

// Key returns the cache key for one site + canonical path.
func Key(siteSlug, path string) string {
	return keyPrefix + siteSlug + ":" + path
}

// Invalidate deletes the cached renders for the given canonical paths and
// returns how many keys actually existed.
func (c *RenderCache) Invalidate(ctx context.Context, siteSlug string, paths []string) (int64, error) {
	if len(paths) == 0 {
		return 0, nil
	}
	keys := make([]string, 0, len(paths))
	for _, p := range paths {
		keys = append(keys, Key(siteSlug, p))
	}
	return c.rdb.Del(ctx, keys...).Result()
}

// InvalidateSite drops every cached render of one site.  Used when a
// site-wide setting (brand color, phone) changes.
func (c *RenderCache) InvalidateSite(ctx context.Context, siteSlug string) (int64, error) {
	var (
		cursor  uint64
		deleted int64
	)
	pattern := keyPrefix + siteSlug + ":*"
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			deleted += n
			if err != nil {
				return deleted, err
			}
		}
		if next == 0 {
			return deleted, nil
		}
		cursor = next
	}
}
