package application

import (
	"context"

	"github.com/loukys/storefront/internal/order/domain"
)

type OrderRepository interface {
	List(ctx context.Context) ([]domain.Order, error)
	Save(ctx context.Context, orders []domain.Order) error
	AppendWithStock(ctx context.Context, o domain.Order, decrements map[string]int) error
}
