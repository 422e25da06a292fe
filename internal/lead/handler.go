// internal/lead/handler.go
//
// Public lead submission endpoint plus the dashboard-side status patch.
//
// Context
// -------
// POST /api/sites/{site}/leads is the one public write surface of a
// tenant site.  Name is required; contact fields are optional.  Only
// active sites accept leads — building, paused, failed, and suspended
// sites reject writes, because a visitor should never be able to file a
// lead against a site its owner cannot see.
//
// PATCH /api/sites/{site}/leads/{id}/status flips the one mutable field.
// Authentication for the dashboard routes is terminated upstream by the
// session collaborator; these handlers only enforce site scoping.
//
// Notes
// -----
//   • Request metadata from internal/requestinfo is persisted with each
//     lead (raw UA, device class, country).
//   • Oxford commas, two spaces after periods.
package lead

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/siloserve/siloserve/internal/metrics"
	"github.com/siloserve/siloserve/internal/requestinfo"
	"github.com/siloserve/siloserve/internal/site"
)

// Handler serves the lead API for one control-plane database.
type Handler struct {
	DB       *sqlx.DB
	Validate *validator.Validate
}

// NewHandler wires a Handler with its own validator instance.
func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{DB: db, Validate: validator.New()}
}

// Routes mounts the lead endpoints under /api/sites/{site}.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.submit)
	r.Get("/", h.list)
	r.Patch("/{lead}/status", h.patchStatus)
	return r
}

// submitPayload is the public submission body.
type submitPayload struct {
	Name       string `json:"name"    validate:"required,min=1,max=256"`
	Email      string `json:"email"   validate:"omitempty,email,max=256"`
	Phone      string `json:"phone"   validate:"omitempty,max=64"`
	Message    string `json:"message" validate:"omitempty,max=4000"`
	SourcePath string `json:"source_path" validate:"omitempty,startswith=/,max=512"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadSite(w, r)
	if !ok {
		return
	}
	if !rec.IsActive() {
		metrics.LeadRejectTotal.Inc()
		writeError(w, http.StatusConflict, "site is not accepting leads")
		return
	}

	var p submitPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		metrics.LeadRejectTotal.Inc()
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.Validate.Struct(&p); err != nil {
		metrics.LeadRejectTotal.Inc()
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	l := &Record{
		PublicID:   uuid.NewString(),
		SiteID:     rec.ID,
		Name:       p.Name,
		Email:      p.Email,
		Phone:      p.Phone,
		SourcePath: p.SourcePath,
		Status:     StatusNew,
	}
	if p.Message != "" {
		l.Message = &p.Message
	}
	if info := requestinfo.FromContext(r.Context()); info != nil {
		l.UserAgent = info.UA.Raw
		l.Device = info.UA.Device
		l.CountryISO = info.Geo.CountryISO
	}

	if err := Insert(r.Context(), h.DB, l); err != nil {
		zap.L().Error("lead insert failed",
			zap.String("site", rec.Slug), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not save lead")
		return
	}

	metrics.LeadSubmitTotal.Inc()
	zap.L().Info("lead received",
		zap.String("site", rec.Slug),
		zap.String("lead", l.PublicID))
	writeJSON(w, http.StatusCreated, map[string]string{"id": l.PublicID})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadSite(w, r)
	if !ok {
		return
	}
	status := r.URL.Query().Get("status")
	if status != "" && !ValidStatus(status) {
		writeError(w, http.StatusBadRequest, "unknown status filter")
		return
	}
	rows, err := ListBySite(r.Context(), h.DB, rec.ID, status)
	if err != nil {
		zap.L().Error("lead list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list leads")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

type statusPayload struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) patchStatus(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadSite(w, r)
	if !ok {
		return
	}
	var p statusPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !ValidStatus(p.Status) {
		writeError(w, http.StatusUnprocessableEntity, "unknown lead status")
		return
	}

	n, err := UpdateStatus(r.Context(), h.DB, rec.ID, chi.URLParam(r, "lead"), p.Status)
	if err != nil {
		zap.L().Error("lead status update failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not update lead")
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "no such lead")
		return
	}
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
