// internal/revalidate/handler.go
//
// Authenticated internal endpoint that invalidates cached renders.
//
// POST /api/revalidate
//
//	Authorization: Bearer <token>
//	{"site": "acme", "paths": ["/", "/plumbing/drain-cleaning"]}
//
// The content generator and the settings CRUD call this after writes so
// stale renders disappear promptly.  Paths must be canonical (leading
// slash); anything else is rejected before touching Redis.
package revalidate

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/siloserve/siloserve/internal/metrics"
)

// Handler guards the render cache behind a shared bearer token.
type Handler struct {
	Cache *RenderCache
	Token string
}

// Routes mounts the revalidation endpoint.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.revalidate)
	return r
}

type payload struct {
	Site  string   `json:"site"`
	Paths []string `json:"paths"`
	All   bool     `json:"all,omitempty"`
}

func (h *Handler) revalidate(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeError(w, http.StatusUnauthorized, "bad token")
		return
	}

	var p payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if p.Site == "" {
		writeError(w, http.StatusUnprocessableEntity, "site is required")
		return
	}
	if !p.All && len(p.Paths) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "paths or all is required")
		return
	}
	for _, path := range p.Paths {
		if !strings.HasPrefix(path, "/") {
			writeError(w, http.StatusUnprocessableEntity,
				"paths must be canonical (leading slash): "+path)
			return
		}
	}

	var (
		n   int64
		err error
	)
	if p.All {
		n, err = h.Cache.InvalidateSite(r.Context(), p.Site)
	} else {
		n, err = h.Cache.Invalidate(r.Context(), p.Site, p.Paths)
	}
	if err != nil {
		zap.L().Error("revalidate failed",
			zap.String("site", p.Site), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "invalidation failed")
		return
	}

	metrics.RevalidateTotal.Add(float64(n))
	zap.L().Info("renders invalidated",
		zap.String("site", p.Site),
		zap.Int64("keys", n))
	writeJSON(w, http.StatusOK, map[string]int64{"invalidated": n})
}

func (h *Handler) authorized(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	tok, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || h.Token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(tok), []byte(h.Token)) == 1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
