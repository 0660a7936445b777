package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/loukys/storefront/internal/identity/domain"
	"github.com/loukys/storefront/internal/notify"
	"github.com/loukys/storefront/internal/storage"
	"github.com/loukys/storefront/pkg/events"
)

var (
	ErrMissingFields      = errors.New("username, email and password are required")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

const minPasswordLen = 6

type Service struct {
	log      *slog.Logger
	users    UserRepository
	session  SessionRepository
	notifier notify.Notifier
	events   events.Publisher
}

func NewService(log *slog.Logger, users UserRepository, session SessionRepository, notifier notify.Notifier, pub events.Publisher) *Service {
	return &Service{log: log, users: users, session: session, notifier: notifier, events: pub}
}

type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Register validates the input, appends the new user and signs them in.
// Validation failures mutate nothing.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		s.notifier.Notify("Please fill all fields", notify.SeverityError)
		return domain.User{}, ErrMissingFields
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if u.Email == in.Email {
			s.notifier.Notify("Email already registered", notify.SeverityError)
			return domain.User{}, ErrEmailTaken
		}
	}
	if in.Password != in.ConfirmPassword {
		s.notifier.Notify("Passwords do not match", notify.SeverityError)
		return domain.User{}, ErrPasswordMismatch
	}
	if len(in.Password) < minPasswordLen {
		s.notifier.Notify("Password must be at least 6 characters", notify.SeverityError)
		return domain.User{}, ErrPasswordTooShort
	}

	hash, err := domain.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}
	u := domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Balance:      0,
		Status:       domain.StatusActive,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Save(ctx, append(users, u)); err != nil {
		return domain.User{}, err
	}
	if err := s.session.SetCurrent(ctx, u); err != nil {
		return domain.User{}, err
	}

	s.notifier.Notify("Registration successful!", notify.SeveritySuccess)
	s.publish(ctx, events.TypeUserRegistered, u.ID, map[string]string{"email": u.Email})
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if u.Email == email && u.PasswordMatches(password) {
			if err := s.session.SetCurrent(ctx, u); err != nil {
				return domain.User{}, err
			}
			s.notifier.Notify("Login successful!", notify.SeveritySuccess)
			return u, nil
		}
	}
	s.notifier.Notify("Invalid email or password", notify.SeverityError)
	return domain.User{}, ErrInvalidCredentials
}

func (s *Service) Logout(ctx context.Context) error {
	if err := s.session.ClearCurrent(ctx); err != nil {
		return err
	}
	s.notifier.Notify("Logged out successfully", notify.SeveritySuccess)
	return nil
}

// Current returns the signed-in user, or ErrNotAuthenticated.
func (s *Service) Current(ctx context.Context) (domain.User, error) {
	u, err := s.session.Current(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.User{}, ErrNotAuthenticated
	}
	return u, err
}

func (s *Service) IsAdmin(ctx context.Context) bool {
	u, err := s.Current(ctx)
	return err == nil && u.IsAdmin()
}

func (s *Service) publish(ctx context.Context, typ, id string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.events.Publish(ctx, events.Event{Type: typ, AggregateID: id, Payload: raw, OccurredAt: time.Now().UTC()}); err != nil {
		s.log.Warn("event publish failed", "type", typ, "err", err)
	}
}
