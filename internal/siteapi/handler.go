// internal/siteapi/handler.go
//
// Site lifecycle API.
//
// Context
// -------
// Four endpoints under /api/sites/{site}:
//
//   POST /pause           – user transition active→paused
//   POST /resume          – user transition paused→active
//   POST /retry-build     – force a failed or stuck build back to building
//   POST /build-progress  – generator heartbeat (done/total/current task)
//   POST /build-complete  – generator result (active or failed)
//
// Pause, resume, and retry are operator actions behind the dashboard
// session; progress and complete are called by the out-of-process
// generator.  Authentication for both is terminated upstream.  Illegal
// transitions return 409 with the current status and the explicit
// allowed set — never silently coerced.  After any status write the
// tenant cache entry for the site's hosts is dropped so the edge router
// picks up the new state immediately instead of after the fresh TTL.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.
package siteapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/siloserve/siloserve/internal/site"
	"github.com/siloserve/siloserve/internal/tenant"
)

// Handler serves the lifecycle endpoints.
type Handler struct {
	DB        *sqlx.DB
	Lifecycle *site.Lifecycle
	Cache     *tenant.Cache
	Rules     tenant.HostRules
}

// Register attaches the lifecycle endpoints to an /api/sites/{site}
// route group (shared with the lead handler's mount).
func (h *Handler) Register(r chi.Router) {
	r.Post("/pause", h.pause)
	r.Post("/resume", h.resume)
	r.Post("/retry-build", h.retryBuild)
	r.Post("/build-progress", h.buildProgress)
	r.Post("/build-complete", h.buildComplete)
}

type pausePayload struct {
	Message string `json:"message"`
}

func (h *Handler) pause(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadSite(w, r)
	if !ok {
		return
	}
	var p pausePayload
	_ = json.NewDecoder(r.Body).Decode(&p) // body optional

	if err := h.Lifecycle.Pause(r.Context(), rec, p.Message); err != nil {
		h.writeLifecycleError(w, err)
		return
	}
	h.invalidateTenant(rec)
	writeJSON(w, http.StatusOK, map[string]string{"status": site.StatusPaused})
}

func (h *Handler) resume(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadSite(w, r)
	if !ok {
		return
	}
	if err := h.Lifecycle.Resume(r.Context(), rec); err != nil {
		h.writeLifecycleError(w, err)
		return
	}
	h.invalidateTenant(rec)
	writeJSON(w, http.StatusOK, map[string]string{"status": site.StatusActive})
}

type retryPayload struct {
	TotalTasks int `json:"total_tasks"`
}

func (h *Handler) retryBuild(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadSite(w, r)
	if !ok {
		return
	}
	var p retryPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.TotalTasks < 1 {
		writeError(w, http.StatusUnprocessableEntity,
			"total_tasks (>= 1) is required")
		return
	}
	if err := h.Lifecycle.RetryBuild(r.Context(), rec, p.TotalTasks); err != nil {
		h.writeLifecycleError(w, err)
		return
	}
	h.invalidateTenant(rec)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": site.StatusBuilding})
}

type progressPayload struct {
	Done        int    `json:"done"`
	Total       int    `json:"total"`
	CurrentTask string `json:"current_task"`
}

func (h *Handler) buildProgress(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadSite(w, r)
	if !ok {
		return
	}
	if rec.Status != site.StatusBuilding {
		writeError(w, http.StatusConflict, "site is not building")
		return
	}
	var p progressPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil ||
		p.Done < 0 || p.Total < p.Done {
		writeError(w, http.StatusUnprocessableEntity, "invalid progress snapshot")
		return
	}
	if err := site.UpdateBuildProgress(r.Context(), h.DB, rec.ID,
		p.Done, p.Total, p.CurrentTask); err != nil {
		zap.L().Error("build progress update failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not record progress")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": site.StatusBuilding})
}

type completePayload struct {
	Status  string `json:"status"` // active or failed
	Message string `json:"message"`
}

func (h *Handler) buildComplete(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadSite(w, r)
	if !ok {
		return
	}
	var p completePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if p.Status != site.StatusActive && p.Status != site.StatusFailed {
		writeError(w, http.StatusUnprocessableEntity,
			"status must be active or failed")
		return
	}

	// Last-write-wins by design: a user pausing mid-callback simply wins
	// or loses the race at the storage layer.
	var msg *string
	if p.Message != "" {
		msg = &p.Message
	}
	if err := site.UpdateStatus(r.Context(), h.DB, rec.ID, p.Status, msg); err != nil {
		zap.L().Error("build completion failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not record result")
		return
	}
	zap.L().Info("build finished",
		zap.String("slug", rec.Slug),
		zap.String("result", p.Status))
	h.invalidateTenant(rec)
	writeJSON(w, http.StatusOK, map[string]string{"status": p.Status})
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

func (h *Handler) loadSite(w http.ResponseWriter, r *http.Request) (*site.Record, bool) {
	rec, err := site.BySlug(r.Context(), h.DB, chi.URLParam(r, "site"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "no such site")
		return nil, false
	}
	if err != nil {
		zap.L().Error("site lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return nil, false
	}
	return rec, true
}

// invalidateTenant drops the cached tenant for every host the site is
// reachable on.
func (h *Handler) invalidateTenant(rec *site.Record) {
	if h.Cache == nil {
		return
	}
	h.Cache.Invalidate(rec.Slug + "." + h.Rules.RootDomain)
	if rec.CustomDomain != nil {
		h.Cache.Invalidate(*rec.CustomDomain)
	}
}

// writeLifecycleError maps state-machine rejections to 409 responses that
// carry the current status and the allowed transition set.
func (h *Handler) writeLifecycleError(w http.ResponseWriter, err error) {
	var te *site.TransitionError
	if errors.As(err, &te) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":   "invalid transition",
			"from":    te.From,
			"to":      te.To,
			"allowed": te.Allowed,
		})
		return
	}
	var re *site.RetryNotEligibleError
	if errors.As(err, &re) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":        "build still in progress",
			"status":       re.Status,
			"since_update": re.SinceUpdate.String(),
			"window":       re.Window.String(),
		})
		return
	}
	zap.L().Error("lifecycle operation failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "operation failed")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
