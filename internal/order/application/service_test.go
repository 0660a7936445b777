package application

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/loukys/storefront/internal/cart/domain"
	catalogdomain "github.com/loukys/storefront/internal/catalog/domain"
	catalogkv "github.com/loukys/storefront/internal/catalog/infrastructure/kv"
	"github.com/loukys/storefront/internal/order/domain"
	orderkv "github.com/loukys/storefront/internal/order/infrastructure/kv"
	"github.com/loukys/storefront/internal/storage"
	"github.com/loukys/storefront/pkg/events"
)

type fixture struct {
	svc      *Service
	products *catalogkv.Repository
	orders   *orderkv.Repository
}

func newFixture(t *testing.T, seed []catalogdomain.Product) fixture {
	t.Helper()
	log := slog.Default()
	store := storage.NewMemory()
	products := catalogkv.NewRepository(log, store)
	require.NoError(t, products.Save(context.Background(), seed))
	orders := orderkv.NewRepository(log, store)
	return fixture{
		svc:      NewService(log, orders, events.Nop{}),
		products: products,
		orders:   orders,
	}
}

func TestMaterializePersistsOrderAndDecrementsStock(t *testing.T) {
	f := newFixture(t, []catalogdomain.Product{
		{ID: "p1", Name: "Pack", Price: 20000, Stock: 10},
		{ID: "p2", Name: "Pass", Price: 500, Stock: 4},
	})
	ctx := context.Background()

	snapshot := []cartdomain.Item{
		{ID: "p1", Name: "Pack", Price: 20000, Quantity: 2},
		{ID: "p2", Name: "Pass", Price: 500, Quantity: 1},
	}
	o, err := f.svc.Materialize(ctx, snapshot, SessionInfo{OrderID: "ORD-1", UserID: "u1", PaymentMethod: "qris"})
	require.NoError(t, err)

	assert.Equal(t, int64(40500), o.Total)
	assert.Equal(t, domain.StatusCompleted, o.Status)
	assert.Equal(t, "u1", o.UserID)

	persisted, err := f.orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, "ORD-1", persisted[0].ID)

	products, err := f.products.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, products[0].Stock)
	assert.Equal(t, 3, products[1].Stock)
}

func TestMaterializeClampsOversoldStockAtZero(t *testing.T) {
	f := newFixture(t, []catalogdomain.Product{{ID: "p1", Price: 100, Stock: 1}})
	ctx := context.Background()

	_, err := f.svc.Materialize(ctx, []cartdomain.Item{{ID: "p1", Price: 100, Quantity: 5}}, SessionInfo{OrderID: "ORD-1"})
	require.NoError(t, err)

	products, err := f.products.List(ctx)
	require.NoError(t, err)
	assert.Zero(t, products[0].Stock)
}

func TestMaterializeWithoutUserFallsBackToGuest(t *testing.T) {
	f := newFixture(t, nil)

	o, err := f.svc.Materialize(context.Background(), []cartdomain.Item{{ID: "p1", Price: 100, Quantity: 1}}, SessionInfo{OrderID: "ORD-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.GuestUserID, o.UserID)
}

func TestMaterializedOrderIsASnapshot(t *testing.T) {
	f := newFixture(t, []catalogdomain.Product{{ID: "p1", Name: "Pack", Price: 100, Stock: 10}})
	ctx := context.Background()

	snapshot := []cartdomain.Item{{ID: "p1", Name: "Pack", Price: 100, Quantity: 1}}
	_, err := f.svc.Materialize(ctx, snapshot, SessionInfo{OrderID: "ORD-1"})
	require.NoError(t, err)

	// Deleting the product later must not disturb the persisted order.
	require.NoError(t, f.products.Save(ctx, nil))

	persisted, err := f.orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, "Pack", persisted[0].Items[0].Name)
	assert.Equal(t, int64(100), persisted[0].Items[0].Price)
}

func TestGetReturnsOrderByID(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Materialize(ctx, []cartdomain.Item{{ID: "p", Price: 10, Quantity: 1}}, SessionInfo{OrderID: "ORD-1", UserID: "u1"})
	require.NoError(t, err)

	o, err := f.svc.Get(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", o.UserID)
	assert.NotEmpty(t, o.Code)

	_, err = f.svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListByUserFilters(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	for _, info := range []SessionInfo{
		{OrderID: "ORD-1", UserID: "u1"},
		{OrderID: "ORD-2", UserID: "u2"},
		{OrderID: "ORD-3", UserID: "u1"},
	} {
		_, err := f.svc.Materialize(ctx, []cartdomain.Item{{ID: "p", Price: 10, Quantity: 1}}, info)
		require.NoError(t, err)
	}

	mine, err := f.svc.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestCancelFlipsStatusAndIgnoresMissingID(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Materialize(ctx, []cartdomain.Item{{ID: "p", Price: 10, Quantity: 1}}, SessionInfo{OrderID: "ORD-1"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(ctx, "ORD-1"))
	require.NoError(t, f.svc.Cancel(ctx, "missing"))

	orders, err := f.orders.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, orders[0].Status)
}

func TestOrderDateIsSetOnMaterialize(t *testing.T) {
	f := newFixture(t, nil)

	before := time.Now().UTC()
	o, err := f.svc.Materialize(context.Background(), []cartdomain.Item{{ID: "p", Price: 10, Quantity: 1}}, SessionInfo{OrderID: "ORD-1"})
	require.NoError(t, err)
	assert.False(t, o.Date.Before(before))
}
