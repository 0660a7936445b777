package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loukys/storefront/internal/identity/application"
	"github.com/loukys/storefront/internal/identity/domain"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/me", h.me)
	return r
}

// userView strips the password hash from responses.
type userView struct {
	ID       string        `json:"id"`
	Username string        `json:"username"`
	Email    string        `json:"email"`
	Role     domain.Role   `json:"role"`
	Balance  int64         `json:"balance"`
	Status   domain.Status `json:"status"`
}

func viewOf(u domain.User) userView {
	return userView{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, Balance: u.Balance, Status: u.Status}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var in application.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	u, err := h.service.Register(r.Context(), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(viewOf(u))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	u, err := h.service.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		h.fail(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(viewOf(u))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Current(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(viewOf(u))
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrNotAuthenticated),
		errors.Is(err, application.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, application.ErrEmailTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, application.ErrMissingFields),
		errors.Is(err, application.ErrPasswordMismatch),
		errors.Is(err, application.ErrPasswordTooShort):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
