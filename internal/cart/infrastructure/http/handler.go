package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loukys/storefront/internal/cart/application"
	catalogapp "github.com/loukys/storefront/internal/catalog/application"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	catalog *catalogapp.Service
}

func NewHandler(log *slog.Logger, service *application.Service, catalog *catalogapp.Service) *Handler {
	return &Handler{log: log, service: service, catalog: catalog}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.get)
	r.Post("/items", h.addItem)
	r.Put("/items/{id}", h.updateQuantity)
	r.Delete("/items/{id}", h.removeItem)
	r.Delete("/", h.clear)
	return r
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Items(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	total, err := h.service.Total(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "total": total})
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	p, err := h.catalog.Get(r.Context(), in.ProductID)
	if errors.Is(err, catalogapp.ErrProductNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := h.service.AddItem(r.Context(), p); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	err := h.service.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), in.Quantity)
	if errors.Is(err, application.ErrLimitedStock) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
