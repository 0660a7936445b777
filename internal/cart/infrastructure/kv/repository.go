package kv

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/loukys/storefront/internal/cart/domain"
	"github.com/loukys/storefront/internal/storage"
)

type Repository struct {
	log   *slog.Logger
	store storage.Store
}

func NewRepository(log *slog.Logger, store storage.Store) *Repository {
	return &Repository{log: log, store: store}
}

func (r *Repository) Items(ctx context.Context) ([]domain.Item, error) {
	raw, err := r.store.Load(ctx, storage.KeyCart)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var items []domain.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		r.log.Warn("cart collection unparsable, treating as empty", "err", err)
		return nil, nil
	}
	return items, nil
}

func (r *Repository) Save(ctx context.Context, items []domain.Item) error {
	if items == nil {
		items = []domain.Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.store.Save(ctx, storage.KeyCart, raw)
}
