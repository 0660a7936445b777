package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	cartdomain "github.com/loukys/storefront/internal/cart/domain"
	"github.com/loukys/storefront/internal/order/domain"
	"github.com/loukys/storefront/pkg/events"
)

var ErrOrderNotFound = errors.New("order not found")

// SessionInfo carries what the materializer needs from a finished
// payment session.
type SessionInfo struct {
	OrderID       string
	UserID        string
	PaymentMethod string
}

type Service struct {
	log    *slog.Logger
	repo   OrderRepository
	events events.Publisher
}

func NewService(log *slog.Logger, repo OrderRepository, pub events.Publisher) *Service {
	return &Service{log: log, repo: repo, events: pub}
}

// Materialize turns a cart snapshot plus a completed session into a
// persisted order, decrementing each product's stock by the purchased
// quantity (clamped at zero). Order append and stock decrements land in
// one batch write.
func (s *Service) Materialize(ctx context.Context, snapshot []cartdomain.Item, sess SessionInfo) (domain.Order, error) {
	userID := sess.UserID
	if userID == "" {
		userID = domain.GuestUserID
	}

	items := make([]domain.Item, 0, len(snapshot))
	decrements := make(map[string]int, len(snapshot))
	for _, it := range snapshot {
		items = append(items, domain.Item{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Image:    it.Image,
			Quantity: it.Quantity,
		})
		decrements[it.ID] += it.Quantity
	}

	o := domain.NewOrder(sess.OrderID, userID, sess.PaymentMethod, items)
	if err := s.repo.AppendWithStock(ctx, o, decrements); err != nil {
		return domain.Order{}, err
	}
	s.log.Info("order materialized", "order_id", o.ID, "user_id", o.UserID, "total", o.Total)

	payload, _ := json.Marshal(map[string]any{"orderId": o.ID, "userId": o.UserID, "total": o.Total})
	if err := s.events.Publish(ctx, events.Event{
		Type:        events.TypeOrderCompleted,
		AggregateID: o.ID,
		Payload:     payload,
		OccurredAt:  time.Now().UTC(),
	}); err != nil {
		s.log.Warn("event publish failed", "type", events.TypeOrderCompleted, "err", err)
	}
	return o, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, ErrOrderNotFound
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Order
	for _, o := range orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// Cancel flips an order to cancelled. A missing id is a silent no-op.
func (s *Service) Cancel(ctx context.Context, id string) error {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	for i := range orders {
		if orders[i].ID == id {
			orders[i].Status = domain.StatusCancelled
			return s.repo.Save(ctx, orders)
		}
	}
	return nil
}
