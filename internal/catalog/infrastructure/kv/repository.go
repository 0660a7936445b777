package kv

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/loukys/storefront/internal/catalog/domain"
	"github.com/loukys/storefront/internal/storage"
)

// The products collection is persisted as a wrapper object, not a bare
// array: {"products": [...]}.
type document struct {
	Products []domain.Product `json:"products"`
}

type Repository struct {
	log   *slog.Logger
	store storage.Store
}

func NewRepository(log *slog.Logger, store storage.Store) *Repository {
	return &Repository{log: log, store: store}
}

func (r *Repository) List(ctx context.Context) ([]domain.Product, error) {
	raw, err := r.store.Load(ctx, storage.KeyProducts)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		r.log.Warn("products collection unparsable, treating as empty", "err", err)
		return nil, nil
	}
	return doc.Products, nil
}

func (r *Repository) Save(ctx context.Context, products []domain.Product) error {
	raw, err := json.Marshal(document{Products: products})
	if err != nil {
		return err
	}
	return r.store.Save(ctx, storage.KeyProducts, raw)
}
