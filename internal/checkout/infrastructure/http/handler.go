package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/loukys/storefront/internal/checkout/application"
	"github.com/loukys/storefront/internal/checkout/domain"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("checkout-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.initiate)
	r.Get("/session", h.status)
	r.Delete("/session", h.close)
	return r
}

type sessionView struct {
	OrderID       string       `json:"orderId"`
	Total         int64        `json:"total"`
	PaymentMethod string       `json:"paymentMethod"`
	State         domain.State `json:"state"`
	Countdown     string       `json:"countdown"`
	Warning       bool         `json:"warning"`
	QRPayload     string       `json:"qrPayload,omitempty"`
}

func (h *Handler) initiate(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "InitiatePayment")
	defer span.End()

	var in struct {
		PaymentMethod string `json:"paymentMethod"`
	}
	// Body is optional; the payment method defaults.
	_ = json.NewDecoder(r.Body).Decode(&in)

	sess, err := h.service.Initiate(ctx, in.PaymentMethod)
	if err != nil {
		h.fail(w, err)
		return
	}

	rem := sess.Remaining(time.Now().UTC())
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(sessionView{
		OrderID:       sess.OrderID,
		Total:         sess.Total,
		PaymentMethod: sess.PaymentMethod,
		State:         sess.State,
		Countdown:     domain.FormatCountdown(rem),
		Warning:       rem < domain.WarningWindow,
		QRPayload:     domain.QRPayload(sess.OrderID, sess.Total, sess.StartedAt),
	})
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	sess, rem, active := h.service.Status()
	if !active {
		_ = json.NewEncoder(w).Encode(map[string]any{"state": domain.StateIdle})
		return
	}
	_ = json.NewEncoder(w).Encode(sessionView{
		OrderID:       sess.OrderID,
		Total:         sess.Total,
		PaymentMethod: sess.PaymentMethod,
		State:         sess.State,
		Countdown:     domain.FormatCountdown(rem),
		Warning:       rem < domain.WarningWindow,
	})
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	h.service.Close()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrEmptyCart):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, application.ErrLoginRequired):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, application.ErrSessionActive):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
