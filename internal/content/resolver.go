// internal/content/resolver.go
//
// Content resolution: canonical path segments → concrete entity.
//
// Context
// -------
// This is the inverse of internal/routing's path builder and must stay in
// lock-step with it.  The interesting case is the single ambiguous
// segment, which may be either a top-level service of the primary
// category or a secondary category slug.  Precedence:
//
//   1. Service belonging to the primary category   → service page.
//   2. Category slug (primary aliases to home)     → category/home page.
//   3. Neither                                     → not found.
//
// Two-segment paths resolve segment one as a category (any, including
// primary) and segment two as a service scoped to that category's id.
//
// The result is a tagged union — callers switch on Kind and can never
// mistake a found category for a found service.
//
// Notes
// -----
//   • sql.ErrNoRows maps to KindNotFound; every other error propagates.
//   • Oxford commas, two spaces after periods.
package content

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/siloserve/siloserve/internal/routing"
	"github.com/siloserve/siloserve/internal/site"
)

// ResultKind tags what a path resolved to.
type ResultKind int

const (
	KindNotFound ResultKind = iota
	KindHome
	KindCategory
	KindService
	KindAreaIndex
	KindArea
	KindNeighborhoodIndex
	KindNeighborhood
	KindStatic
	KindWorkDetail
)

// Result is the tagged outcome of one resolution.  Exactly the pointer
// matching Kind is non-nil; Page and WorkSlug are set for static kinds.
type Result struct {
	Kind              ResultKind
	IsPrimaryCategory bool

	Category     *Category
	Service      *Service
	Area         *ServiceArea
	Neighborhood *Neighborhood
	Page         string
	WorkSlug     string
}

// notFound is the shared zero result.
var notFound = Result{Kind: KindNotFound}

// staticPages are the fixed single-segment informational pages.
var staticPages = map[string]struct{}{
	routing.PageAbout:   {},
	routing.PageContact: {},
	routing.PageJobs:    {},
	routing.PageWork:    {},
}

// Resolver resolves canonical path segments against one site's content.
type Resolver struct {
	DB *sqlx.DB
}

// Resolve maps up to two path segments (already stripped of any location
// prefix by the edge middleware) to a content entity.  locationID scopes
// neighborhood lookups on multi-location sites and is nil otherwise.
func (r *Resolver) Resolve(ctx context.Context, st *site.Record, locationID *uint64, segments []string) (Result, error) {
	switch len(segments) {
	case 0:
		return r.resolveHome(ctx, st)
	case 1:
		return r.resolveOne(ctx, st, segments[0])
	case 2:
		return r.resolveTwo(ctx, st, locationID, segments[0], segments[1])
	default:
		return notFound, nil
	}
}

// resolveHome returns the home page, which is aliased to the primary
// category.  Category and "home" stay separate types joined only here.
func (r *Resolver) resolveHome(ctx context.Context, st *site.Record) (Result, error) {
	cats, err := CategoriesBySite(ctx, r.DB, st.ID)
	if err != nil {
		return notFound, err
	}
	res := Result{Kind: KindHome, IsPrimaryCategory: true}
	if p := primaryOf(cats); p != nil {
		res.Category = p
	}
	return res, nil
}

// resolveOne handles one remaining segment: a distinct namespace index, a
// static page, or the ambiguous service-vs-category case.
func (r *Resolver) resolveOne(ctx context.Context, st *site.Record, seg string) (Result, error) {
	switch seg {
	case routing.SegmentAreas:
		return Result{Kind: KindAreaIndex}, nil
	case routing.SegmentNeighborhoods:
		return Result{Kind: KindNeighborhoodIndex}, nil
	}
	if _, ok := staticPages[seg]; ok {
		return Result{Kind: KindStatic, Page: seg}, nil
	}

	cats, err := CategoriesBySite(ctx, r.DB, st.ID)
	if err != nil {
		return notFound, err
	}

	// 1. Service of the primary category wins over any category slug.
	if p := primaryOf(cats); p != nil {
		svc, err := ServiceBySlug(ctx, r.DB, st.ID, p.ID, seg)
		switch {
		case err == nil:
			return Result{
				Kind:              KindService,
				IsPrimaryCategory: true,
				Category:          p,
				Service:           svc,
			}, nil
		case !errors.Is(err, sql.ErrNoRows):
			return notFound, err
		}
	}

	// 2. Category slug.  A primary match is the home alias.
	if c := matchCategory(cats, seg); c != nil {
		if c.IsPrimary {
			return Result{Kind: KindHome, IsPrimaryCategory: true, Category: c}, nil
		}
		return Result{Kind: KindCategory, Category: c}, nil
	}

	return notFound, nil
}

// resolveTwo handles nested paths: areas, neighborhoods, work details,
// and category/service pairs.
func (r *Resolver) resolveTwo(ctx context.Context, st *site.Record, locationID *uint64, a, b string) (Result, error) {
	switch a {
	case routing.SegmentAreas:
		area, err := AreaBySlug(ctx, r.DB, st.ID, b)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound, nil
		}
		if err != nil {
			return notFound, err
		}
		return Result{Kind: KindArea, Area: area}, nil

	case routing.SegmentNeighborhoods:
		n, err := NeighborhoodBySlug(ctx, r.DB, st.ID, locationID, b)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound, nil
		}
		if err != nil {
			return notFound, err
		}
		return Result{Kind: KindNeighborhood, Neighborhood: n}, nil

	case routing.PageWork:
		return Result{Kind: KindWorkDetail, Page: routing.PageWork, WorkSlug: b}, nil
	}

	cats, err := CategoriesBySite(ctx, r.DB, st.ID)
	if err != nil {
		return notFound, err
	}
	c := matchCategory(cats, a)
	if c == nil {
		return notFound, nil
	}

	// Scope the service lookup to this category's id, not the site, so
	// identical slugs in other categories cannot collide.
	svc, err := ServiceBySlug(ctx, r.DB, st.ID, c.ID, b)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound, nil
	}
	if err != nil {
		return notFound, err
	}
	return Result{
		Kind:              KindService,
		IsPrimaryCategory: c.IsPrimary,
		Category:          c,
		Service:           svc,
	}, nil
}

// primaryOf returns the primary category of a slice, or nil.
func primaryOf(cats []Category) *Category {
	for i := range cats {
		if cats[i].IsPrimary {
			return &cats[i]
		}
	}
	return nil
}

// matchCategory matches a segment against the three accepted spellings:
// the stored slug, the taxonomy machine name, and the normalized display
// name.  Historical links may use any of them.
func matchCategory(cats []Category, seg string) *Category {
	for i := range cats {
		c := &cats[i]
		if seg == c.Slug ||
			seg == c.TaxonomyName ||
			seg == routing.NormalizeDisplayName(c.DisplayName) {
			return c
		}
	}
	return nil
}
