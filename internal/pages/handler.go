// internal/pages/handler.go
//
// Downstream page handlers for the internal canonical tree.
//
// Context
// -------
// The edge middleware rewrites every tenant request into the shared shape
// /sites/{slug}[/locations/{loc}]/{rest}.  These handlers consume that
// shape: load the site, resolve {rest} through the content resolver, and
// emit the page model the rendering front end consumes.  Presentational
// UI is out of scope, so content pages are JSON page models; the status
// pages (coming-soon, maintenance, build-error, suspended, plus the
// global domain-not-found) render a small self-contained HTML template.
//
// The canonical path in each page model is produced by internal/routing,
// which keeps the builder and resolver honest against each other — the
// round-trip shows up in every response.
//
// Notes
// -----
//   • A valid site with an unresolvable path gets the site's own themed
//     404 payload, not a platform error.
//   • Oxford commas, two spaces after periods.
package pages

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/siloserve/siloserve/internal/content"
	"github.com/siloserve/siloserve/internal/edge"
	"github.com/siloserve/siloserve/internal/routing"
	"github.com/siloserve/siloserve/internal/site"
)

// Handler serves the internal /sites tree and the global status pages.
type Handler struct {
	DB       *sqlx.DB
	Resolver *content.Resolver
}

// Routes mounts the internal canonical tree.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get(edge.DomainNotFoundPath, h.domainNotFound)
	r.Route("/sites/{site}", func(r chi.Router) {
		r.Get("/locations/{location}", h.locationPage)
		r.Get("/locations/{location}/*", h.locationPage)
		r.Get("/", h.sitePage)
		r.Get("/*", h.sitePage)
	})
	return r
}

// PageModel is what the rendering front end consumes for content pages.
type PageModel struct {
	Kind          string               `json:"kind"`
	Site          string               `json:"site"`
	Location      string               `json:"location,omitempty"`
	CanonicalPath string               `json:"canonical_path"`
	Category      *content.Category    `json:"category,omitempty"`
	Service       *content.Service     `json:"service,omitempty"`
	Services      []content.Service    `json:"services,omitempty"`
	Area          *content.ServiceArea `json:"area,omitempty"`
	Neighborhood  *content.Neighborhood `json:"neighborhood,omitempty"`
	Page          string               `json:"page,omitempty"`
	WorkSlug      string               `json:"work_slug,omitempty"`
	Settings      map[string]string    `json:"settings,omitempty"`
}

/*──────────────────────────── handlers ─────────────────────────────────────*/

func (h *Handler) sitePage(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadSite(w, r)
	if !ok {
		return
	}
	rest := chi.URLParam(r, "*")

	// Status pages live directly under the site namespace.
	if page, ok := statusPage(rest); ok {
		renderStatus(w, rec, page)
		return
	}

	topo := routing.Topology{MultiLocation: rec.IsMultiLocation()}
	h.renderContent(w, r, rec, nil, topo, rest)
}

func (h *Handler) locationPage(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadSite(w, r)
	if !ok {
		return
	}
	locSlug := chi.URLParam(r, "location")
	loc, err := content.LocationBySlug(r.Context(), h.DB, rec.ID, locSlug)
	if errors.Is(err, sql.ErrNoRows) {
		h.renderNotFound(w, rec, locSlug)
		return
	}
	if err != nil {
		h.fail(w, err)
		return
	}

	topo := routing.Topology{MultiLocation: true, LocationSlug: loc.Slug}
	h.renderContent(w, r, rec, &loc.ID, topo, chi.URLParam(r, "*"))
}

func (h *Handler) domainNotFound(w http.ResponseWriter, _ *http.Request) {
	// Deliberately HTTP 200: the page explains what to fix.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = statusTmpl.Execute(w, statusView{
		Title: "Domain not connected",
		Body: "This domain points at our platform, but no published site is " +
			"attached to it yet.  If you own this domain, finish connecting it " +
			"from your dashboard.",
	})
}

/*──────────────────────────── internals ────────────────────────────────────*/

func (h *Handler) renderContent(w http.ResponseWriter, r *http.Request, rec *site.Record, locationID *uint64, topo routing.Topology, rest string) {
	segments := splitSegments(rest)
	res, err := h.Resolver.Resolve(r.Context(), rec, locationID, segments)
	if err != nil {
		h.fail(w, err)
		return
	}
	if res.Kind == content.KindNotFound {
		h.renderNotFound(w, rec, rest)
		return
	}

	settings, err := site.SettingsBySite(r.Context(), h.DB, rec.ID)
	if err != nil {
		h.fail(w, err)
		return
	}

	model := PageModel{
		Kind:          kindString(res.Kind),
		Site:          rec.Slug,
		Location:      topo.LocationSlug,
		CanonicalPath: canonicalPath(topo, res, segments),
		Category:      res.Category,
		Service:       res.Service,
		Area:          res.Area,
		Neighborhood:  res.Neighborhood,
		Page:          res.Page,
		WorkSlug:      res.WorkSlug,
		Settings:      settings,
	}

	// Home and category pages list their active services.
	if (res.Kind == content.KindHome || res.Kind == content.KindCategory) && res.Category != nil {
		svcs, err := content.ServicesByCategory(r.Context(), h.DB, res.Category.ID)
		if err != nil {
			h.fail(w, err)
			return
		}
		model.Services = svcs
	}

	writeJSON(w, http.StatusOK, model)
}

// loadSite fetches the site named in the URL, or serves the global
// not-found page when the slug is unknown (a hand-crafted internal URL).
func (h *Handler) loadSite(w http.ResponseWriter, r *http.Request) (*site.Record, bool) {
	slug := chi.URLParam(r, "site")
	rec, err := site.BySlug(r.Context(), h.DB, slug)
	if errors.Is(err, sql.ErrNoRows) {
		h.domainNotFound(w, r)
		return nil, false
	}
	if err != nil {
		h.fail(w, err)
		return nil, false
	}
	return rec, true
}

// renderNotFound emits the site's own themed 404 payload.
func (h *Handler) renderNotFound(w http.ResponseWriter, rec *site.Record, path string) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"kind": "not_found",
		"site": rec.Slug,
		"path": path,
	})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	zap.L().Error("page render failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"kind": "error",
	})
}

// canonicalPath rebuilds the public URL for a resolved entity through the
// path builder, keeping builder and resolver in lock-step.
func canonicalPath(t routing.Topology, res content.Result, segments []string) string {
	switch res.Kind {
	case content.KindHome:
		return routing.Home(t)
	case content.KindCategory:
		return routing.Category(t, res.Category.Slug, res.Category.IsPrimary)
	case content.KindService:
		return routing.Service(t, res.Category.Slug, res.IsPrimaryCategory, res.Service.Slug)
	case content.KindAreaIndex:
		return routing.AreaIndex(t)
	case content.KindArea:
		return routing.Area(t, res.Area.Slug)
	case content.KindNeighborhoodIndex:
		return routing.NeighborhoodIndex(t)
	case content.KindNeighborhood:
		return routing.Neighborhood(t, res.Neighborhood.Slug)
	case content.KindWorkDetail:
		return routing.WorkDetail(t, res.WorkSlug)
	case content.KindStatic:
		return routing.Static(t, res.Page)
	default:
		return routing.BuildPath("", strings.Join(segments, "/"))
	}
}

func kindString(k content.ResultKind) string {
	switch k {
	case content.KindHome:
		return "home"
	case content.KindCategory:
		return "category"
	case content.KindService:
		return "service"
	case content.KindAreaIndex:
		return "area_index"
	case content.KindArea:
		return "area"
	case content.KindNeighborhoodIndex:
		return "neighborhood_index"
	case content.KindNeighborhood:
		return "neighborhood"
	case content.KindStatic:
		return "static"
	case content.KindWorkDetail:
		return "work_detail"
	default:
		return "not_found"
	}
}

func splitSegments(rest string) []string {
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
