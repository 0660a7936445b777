package application

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartkv "github.com/loukys/storefront/internal/cart/infrastructure/kv"
	catalogdomain "github.com/loukys/storefront/internal/catalog/domain"
	"github.com/loukys/storefront/internal/notify"
	"github.com/loukys/storefront/internal/storage"
)

type countingRefresher struct {
	calls []int
}

func (r *countingRefresher) Refresh(count int) { r.calls = append(r.calls, count) }

func newTestService(t *testing.T) (*Service, *countingRefresher) {
	t.Helper()
	log := slog.Default()
	repo := cartkv.NewRepository(log, storage.NewMemory())
	ref := &countingRefresher{}
	return NewService(log, repo, notify.Nop{}, ref), ref
}

func product(id string, price int64, stock int) catalogdomain.Product {
	return catalogdomain.Product{ID: id, Name: "Product " + id, Price: price, Stock: stock}
}

func TestAddItemMergesDuplicateProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := product("p1", 20000, 5)
	require.NoError(t, svc.AddItem(ctx, p))
	require.NoError(t, svc.AddItem(ctx, p))

	items, err := svc.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, int64(20000), items[0].Price)
	assert.Equal(t, 5, items[0].Stock)
}

func TestAddItemSnapshotsPriceAndStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, product("p1", 1000, 3)))

	// A later catalog price change must not reach the cart line.
	items, err := svc.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), items[0].Price)
	assert.Equal(t, 3, items[0].Stock)
}

func TestRemoveItemMissingIDIsNoOp(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, product("p1", 1000, 3)))
	require.NoError(t, svc.RemoveItem(ctx, "ghost"))

	items, err := svc.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestUpdateQuantityBelowOneRemoves(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, product("p1", 1000, 3)))
	require.NoError(t, svc.UpdateQuantity(ctx, "p1", 0))

	items, err := svc.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdateQuantityOverStockRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, product("p1", 1000, 3)))

	err := svc.UpdateQuantity(ctx, "p1", 4)
	assert.ErrorIs(t, err, ErrLimitedStock)

	// State unchanged.
	items, err := svc.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestUpdateQuantityZeroStockSnapshotHasNoBound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, product("p1", 1000, 0)))
	require.NoError(t, svc.UpdateQuantity(ctx, "p1", 99))

	items, err := svc.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, 99, items[0].Quantity)
}

func TestClearEmptiesCart(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, product("p1", 1000, 3)))
	require.NoError(t, svc.AddItem(ctx, product("p2", 2000, 3)))
	require.NoError(t, svc.Clear(ctx))

	count, err := svc.ItemCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRefresherCalledOnEveryMutation(t *testing.T) {
	svc, ref := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, product("p1", 1000, 9)))
	require.NoError(t, svc.UpdateQuantity(ctx, "p1", 3))
	require.NoError(t, svc.RemoveItem(ctx, "p1"))

	assert.Equal(t, []int{1, 3, 0}, ref.calls)
}

func TestInvariantsUnderRandomizedSequences(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	products := []catalogdomain.Product{
		product("a", 500, 20),
		product("b", 1200, 20),
		product("c", 9999, 20),
	}

	for i := 0; i < 500; i++ {
		p := products[rand.IntN(len(products))]
		switch rand.IntN(3) {
		case 0:
			require.NoError(t, svc.AddItem(ctx, p))
		case 1:
			require.NoError(t, svc.RemoveItem(ctx, p.ID))
		case 2:
			err := svc.UpdateQuantity(ctx, p.ID, rand.IntN(25))
			if err != nil {
				require.ErrorIs(t, err, ErrLimitedStock)
			}
		}

		items, err := svc.Items(ctx)
		require.NoError(t, err)

		seen := map[string]bool{}
		var want int64
		for _, it := range items {
			require.False(t, seen[it.ID], "duplicate cart entry for %s", it.ID)
			seen[it.ID] = true
			require.GreaterOrEqual(t, it.Quantity, 1)
			want += it.Price * int64(it.Quantity)
		}

		total, err := svc.Total(ctx)
		require.NoError(t, err)
		require.Equal(t, want, total)
	}
}
