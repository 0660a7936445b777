package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/loukys/storefront/internal/catalog/domain"
	"github.com/loukys/storefront/pkg/events"
)

var ErrProductNotFound = errors.New("product not found")

type Service struct {
	log    *slog.Logger
	repo   ProductRepository
	events events.Publisher
}

func NewService(log *slog.Logger, repo ProductRepository, pub events.Publisher) *Service {
	return &Service{log: log, repo: repo, events: pub}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, ErrProductNotFound
}

type ProductInput struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         int64    `json:"price"`
	OriginalPrice int64    `json:"originalPrice"`
	Stock         int      `json:"stock"`
	Image         string   `json:"image"`
	Features      []string `json:"features"`
}

func (s *Service) Create(ctx context.Context, in ProductInput) (domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{
		ID:            "prod-" + uuid.NewString(),
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Stock:         in.Stock,
		Image:         in.Image,
		Features:      in.Features,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, append(products, p)); err != nil {
		return domain.Product{}, err
	}
	s.log.Info("product created", "id", p.ID, "name", p.Name)
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in ProductInput) (domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	for i := range products {
		if products[i].ID != id {
			continue
		}
		products[i].Name = in.Name
		products[i].Description = in.Description
		products[i].Price = in.Price
		products[i].OriginalPrice = in.OriginalPrice
		products[i].Stock = in.Stock
		if in.Image != "" {
			products[i].Image = in.Image
		}
		products[i].Features = in.Features
		if err := s.repo.Save(ctx, products); err != nil {
			return domain.Product{}, err
		}
		return products[i], nil
	}
	return domain.Product{}, ErrProductNotFound
}

// Delete removes the product if present. A missing id is a silent no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	products, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		return nil
	}
	return s.repo.Save(ctx, kept)
}

// Restock tops up every low-stock product and announces the refill.
func (s *Service) Restock(ctx context.Context) (int, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	var touched int
	for i := range products {
		if products[i].LowStock() {
			products[i].Stock += domain.RestockAmount
			touched++
		}
	}
	if touched == 0 {
		return 0, nil
	}
	if err := s.repo.Save(ctx, products); err != nil {
		return 0, err
	}
	payload, _ := json.Marshal(map[string]int{"restocked": touched})
	if err := s.events.Publish(ctx, events.Event{
		Type:       events.TypeProductRestocked,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		s.log.Warn("event publish failed", "type", events.TypeProductRestocked, "err", err)
	}
	return touched, nil
}
