package kv

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	catalogdomain "github.com/loukys/storefront/internal/catalog/domain"
	"github.com/loukys/storefront/internal/order/domain"
	"github.com/loukys/storefront/internal/storage"
)

type productsDocument struct {
	Products []catalogdomain.Product `json:"products"`
}

type Repository struct {
	log   *slog.Logger
	store storage.Store
}

func NewRepository(log *slog.Logger, store storage.Store) *Repository {
	return &Repository{log: log, store: store}
}

func (r *Repository) List(ctx context.Context) ([]domain.Order, error) {
	raw, err := r.store.Load(ctx, storage.KeyOrders)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var orders []domain.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		r.log.Warn("orders collection unparsable, treating as empty", "err", err)
		return nil, nil
	}
	return orders, nil
}

func (r *Repository) Save(ctx context.Context, orders []domain.Order) error {
	if orders == nil {
		orders = []domain.Order{}
	}
	raw, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	return r.store.Save(ctx, storage.KeyOrders, raw)
}

// AppendWithStock persists a new order and the matching stock decrements
// in one batch write, so a crash cannot record the order against stock
// that was never taken.
func (r *Repository) AppendWithStock(ctx context.Context, o domain.Order, decrements map[string]int) error {
	orders, err := r.List(ctx)
	if err != nil {
		return err
	}
	orders = append(orders, o)
	ordersRaw, err := json.Marshal(orders)
	if err != nil {
		return err
	}

	doc, err := r.loadProducts(ctx)
	if err != nil {
		return err
	}
	for i := range doc.Products {
		if qty, ok := decrements[doc.Products[i].ID]; ok {
			doc.Products[i].RemoveStock(qty)
		}
	}
	productsRaw, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	return r.store.SaveAll(ctx, map[string][]byte{
		storage.KeyOrders:   ordersRaw,
		storage.KeyProducts: productsRaw,
	})
}

func (r *Repository) loadProducts(ctx context.Context) (productsDocument, error) {
	raw, err := r.store.Load(ctx, storage.KeyProducts)
	if errors.Is(err, storage.ErrNotFound) {
		return productsDocument{Products: []catalogdomain.Product{}}, nil
	}
	if err != nil {
		return productsDocument{}, err
	}
	var doc productsDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return productsDocument{Products: []catalogdomain.Product{}}, nil
	}
	return doc, nil
}
