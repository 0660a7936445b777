package kv

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/loukys/storefront/internal/identity/domain"
	"github.com/loukys/storefront/internal/storage"
)

type Repository struct {
	log   *slog.Logger
	store storage.Store
}

func NewRepository(log *slog.Logger, store storage.Store) *Repository {
	return &Repository{log: log, store: store}
}

func (r *Repository) List(ctx context.Context) ([]domain.User, error) {
	raw, err := r.store.Load(ctx, storage.KeyUsers)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var users []domain.User
	if err := json.Unmarshal(raw, &users); err != nil {
		r.log.Warn("users collection unparsable, treating as empty", "err", err)
		return nil, nil
	}
	return users, nil
}

func (r *Repository) Save(ctx context.Context, users []domain.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return r.store.Save(ctx, storage.KeyUsers, raw)
}

// Current returns the active session's user, or storage.ErrNotFound when
// nobody is signed in.
func (r *Repository) Current(ctx context.Context) (domain.User, error) {
	raw, err := r.store.Load(ctx, storage.KeyCurrentUser)
	if err != nil {
		return domain.User{}, err
	}
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *Repository) SetCurrent(ctx context.Context, u domain.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return r.store.Save(ctx, storage.KeyCurrentUser, raw)
}

func (r *Repository) ClearCurrent(ctx context.Context) error {
	return r.store.Delete(ctx, storage.KeyCurrentUser)
}
