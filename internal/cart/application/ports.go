package application

import (
	"context"

	"github.com/loukys/storefront/internal/cart/domain"
)

type CartRepository interface {
	Items(ctx context.Context) ([]domain.Item, error)
	Save(ctx context.Context, items []domain.Item) error
}

// Refresher is the view hook invoked synchronously after every cart
// mutation, carrying the new item count.
type Refresher interface {
	Refresh(count int)
}

type NopRefresher struct{}

func (NopRefresher) Refresh(int) {}
