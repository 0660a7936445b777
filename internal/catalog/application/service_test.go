package application

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loukys/storefront/internal/catalog/domain"
	catalogkv "github.com/loukys/storefront/internal/catalog/infrastructure/kv"
	"github.com/loukys/storefront/internal/storage"
	"github.com/loukys/storefront/pkg/events"
)

func newTestService(t *testing.T) (*Service, *catalogkv.Repository) {
	t.Helper()
	log := slog.Default()
	repo := catalogkv.NewRepository(log, storage.NewMemory())
	return NewService(log, repo, events.Nop{}), repo
}

func TestCreateAssignsIDAndPersists(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, ProductInput{Name: "Pack", Price: 25000, Stock: 40, Features: []string{"a", "b"}})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	products, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, []string{"a", "b"}, products[0].Features)
}

func TestGetMissingProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateOverwritesFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, ProductInput{Name: "Pack", Price: 25000, Stock: 40})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p.ID, ProductInput{Name: "Pack v2", Price: 30000, Stock: 15})
	require.NoError(t, err)
	assert.Equal(t, "Pack v2", updated.Name)
	assert.Equal(t, int64(30000), updated.Price)
	assert.Equal(t, 15, updated.Stock)

	_, err = svc.Update(ctx, "ghost", ProductInput{})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteMissingIDIsNoOp(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ProductInput{Name: "Pack", Price: 100, Stock: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "ghost"))

	products, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestDeleteRemovesProduct(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, ProductInput{Name: "Pack", Price: 100, Stock: 1})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, p.ID))

	products, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestRestockTopsUpOnlyLowStock(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []domain.Product{
		{ID: "low", Stock: 3},
		{ID: "ok", Stock: 30},
		{ID: "empty", Stock: 0},
	}))

	n, err := svc.Restock(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	products, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 53, products[0].Stock)
	assert.Equal(t, 30, products[1].Stock)
	assert.Equal(t, 50, products[2].Stock)
}

func TestRemoveStockClamp(t *testing.T) {
	p := domain.Product{Stock: 2}
	p.RemoveStock(5)
	assert.Zero(t, p.Stock)
}
