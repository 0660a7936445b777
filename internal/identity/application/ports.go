package application

import (
	"context"

	"github.com/loukys/storefront/internal/identity/domain"
)

type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	Save(ctx context.Context, users []domain.User) error
}

// SessionRepository tracks the single active sign-in.
type SessionRepository interface {
	Current(ctx context.Context) (domain.User, error)
	SetCurrent(ctx context.Context, u domain.User) error
	ClearCurrent(ctx context.Context) error
}
