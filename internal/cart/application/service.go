package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/loukys/storefront/internal/cart/domain"
	catalogdomain "github.com/loukys/storefront/internal/catalog/domain"
	"github.com/loukys/storefront/internal/notify"
)

// ErrLimitedStock rejects a quantity above the item's stock snapshot.
var ErrLimitedStock = errors.New("requested quantity exceeds available stock")

type Service struct {
	log       *slog.Logger
	repo      CartRepository
	notifier  notify.Notifier
	refresher Refresher
}

func NewService(log *slog.Logger, repo CartRepository, notifier notify.Notifier, refresher Refresher) *Service {
	if refresher == nil {
		refresher = NopRefresher{}
	}
	return &Service{log: log, repo: repo, notifier: notifier, refresher: refresher}
}

// AddItem puts one unit of the product in the cart, merging into an
// existing line when the product is already there. Price, stock and image
// are snapshotted at add time.
func (s *Service) AddItem(ctx context.Context, p catalogdomain.Product) error {
	items, err := s.repo.Items(ctx)
	if err != nil {
		return err
	}

	found := false
	for i := range items {
		if items[i].ID == p.ID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, domain.Item{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Image:    p.Image,
			Quantity: 1,
			Stock:    p.Stock,
		})
	}

	if err := s.persist(ctx, items); err != nil {
		return err
	}
	s.notifier.Notify(fmt.Sprintf("%s added to cart!", p.Name), notify.SeveritySuccess)
	return nil
}

// RemoveItem drops the matching line. A missing id is a silent no-op.
func (s *Service) RemoveItem(ctx context.Context, id string) error {
	items, err := s.repo.Items(ctx)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	if err := s.persist(ctx, kept); err != nil {
		return err
	}
	s.notifier.Notify("Item removed from cart", notify.SeverityInfo)
	return nil
}

// UpdateQuantity sets a line's quantity. Below 1 delegates to RemoveItem;
// above the stock snapshot the cart is left untouched and ErrLimitedStock
// is returned.
func (s *Service) UpdateQuantity(ctx context.Context, id string, qty int) error {
	if qty < 1 {
		return s.RemoveItem(ctx, id)
	}

	items, err := s.repo.Items(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		if items[i].Stock > 0 && qty > items[i].Stock {
			s.notifier.Notify(fmt.Sprintf("Only %d items available", items[i].Stock), notify.SeverityError)
			return ErrLimitedStock
		}
		items[i].Quantity = qty
		return s.persist(ctx, items)
	}
	return nil
}

func (s *Service) Clear(ctx context.Context) error {
	return s.persist(ctx, nil)
}

func (s *Service) Items(ctx context.Context) ([]domain.Item, error) {
	return s.repo.Items(ctx)
}

func (s *Service) Total(ctx context.Context) (int64, error) {
	items, err := s.repo.Items(ctx)
	if err != nil {
		return 0, err
	}
	return domain.Total(items), nil
}

func (s *Service) ItemCount(ctx context.Context) (int, error) {
	items, err := s.repo.Items(ctx)
	if err != nil {
		return 0, err
	}
	return domain.Count(items), nil
}

func (s *Service) persist(ctx context.Context, items []domain.Item) error {
	if err := s.repo.Save(ctx, items); err != nil {
		return err
	}
	s.refresher.Refresh(domain.Count(items))
	return nil
}
