package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	identityapp "github.com/loukys/storefront/internal/identity/application"
	identitydomain "github.com/loukys/storefront/internal/identity/domain"
	"github.com/loukys/storefront/internal/order/application"
	"github.com/loukys/storefront/internal/order/domain"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	auth    *identityapp.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service, auth *identityapp.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		auth:    auth,
		tracer:  otel.Tracer("order-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/cancel", h.cancel)
	return r
}

// list returns the signed-in user's orders; admins see every order.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	u, err := h.auth.Current(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	var orders []domain.Order
	if u.IsAdmin() {
		orders, err = h.service.List(r.Context())
	} else {
		orders, err = h.service.ListByUser(r.Context(), u.ID)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"orders": orders})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	u, err := h.auth.Current(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	o, ok := h.lookup(w, r, u)
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(o)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CancelOrder")
	defer span.End()

	u, err := h.auth.Current(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	o, ok := h.lookup(w, r, u)
	if !ok {
		return
	}
	if err := h.service.Cancel(ctx, o.ID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lookup fetches the path order. Another user's order reads as not
// found so ids cannot be probed.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request, u identitydomain.User) (domain.Order, bool) {
	o, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, application.ErrOrderNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return domain.Order{}, false
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return domain.Order{}, false
	}
	if !u.IsAdmin() && o.UserID != u.ID {
		http.Error(w, application.ErrOrderNotFound.Error(), http.StatusNotFound)
		return domain.Order{}, false
	}
	return o, true
}
