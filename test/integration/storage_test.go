package integration

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loukys/storefront/internal/storage"
)

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	env, err := Setup(ctx)
	require.NoError(t, err)
	defer env.Teardown(ctx)

	rdb := goredis.NewClient(&goredis.Options{Addr: env.RedisAddr})
	defer rdb.Close()

	store := storage.NewRedis(rdb, "storefront-test")

	_, err = store.Load(ctx, storage.KeyCart)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.Save(ctx, storage.KeyCart, []byte(`[]`)))
	got, err := store.Load(ctx, storage.KeyCart)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, store.SaveAll(ctx, map[string][]byte{
		storage.KeyOrders:   []byte(`[{"id":"ORD-1"}]`),
		storage.KeyProducts: []byte(`{"products":[]}`),
	}))
	orders, err := store.Load(ctx, storage.KeyOrders)
	require.NoError(t, err)
	assert.Contains(t, string(orders), "ORD-1")

	require.NoError(t, store.Delete(ctx, storage.KeyCart))
	_, err = store.Load(ctx, storage.KeyCart)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
