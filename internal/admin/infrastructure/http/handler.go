package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/loukys/storefront/internal/admin/application"
	identityapp "github.com/loukys/storefront/internal/identity/application"
)

// Orders older than this are swept by the cleanup endpoint.
const orderRetention = 30 * 24 * time.Hour

type Handler struct {
	log     *slog.Logger
	service *application.Service
	auth    *identityapp.Service
}

func NewHandler(log *slog.Logger, service *application.Service, auth *identityapp.Service) *Handler {
	return &Handler{log: log, service: service, auth: auth}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(h.requireAdmin)
	r.Get("/stats", h.stats)
	r.Get("/report", h.report)
	r.Get("/backup", h.backup)
	r.Delete("/orders/old", h.clearOldOrders)
	return r
}

func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.auth.IsAdmin(r.Context()) {
			http.Error(w, "admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Stats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(st)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.Report(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(rep)
}

func (h *Handler) backup(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Backup(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="storefront-backup.json"`)
	_ = json.NewEncoder(w).Encode(b)
}

func (h *Handler) clearOldOrders(w http.ResponseWriter, r *http.Request) {
	removed, err := h.service.ClearOldOrders(r.Context(), orderRetention)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]int{"removed": removed})
}
