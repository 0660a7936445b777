package application

import (
	"context"

	"github.com/loukys/storefront/internal/catalog/domain"
)

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	Save(ctx context.Context, products []domain.Product) error
}
