package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLoadMissingKey(t *testing.T) {
	m := NewMemory()

	_, err := m.Load(context.Background(), KeyCart)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySaveLoadRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, KeyUsers, []byte(`[{"id":"u1"}]`)))

	got, err := m.Load(ctx, KeyUsers)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"u1"}]`, string(got))
}

func TestMemorySaveReplacesWholeValue(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, KeyOrders, []byte(`["a","b"]`)))
	require.NoError(t, m.Save(ctx, KeyOrders, []byte(`["c"]`)))

	got, err := m.Load(ctx, KeyOrders)
	require.NoError(t, err)
	assert.Equal(t, `["c"]`, string(got))
}

func TestMemorySaveAllWritesEveryKey(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	err := m.SaveAll(ctx, map[string][]byte{
		KeyOrders:   []byte(`[1]`),
		KeyProducts: []byte(`{"products":[]}`),
	})
	require.NoError(t, err)

	orders, err := m.Load(ctx, KeyOrders)
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(orders))

	products, err := m.Load(ctx, KeyProducts)
	require.NoError(t, err)
	assert.Equal(t, `{"products":[]}`, string(products))
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, KeyCurrentUser, []byte(`{}`)))
	require.NoError(t, m.Delete(ctx, KeyCurrentUser))

	_, err := m.Load(ctx, KeyCurrentUser)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryLoadReturnsCopy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, KeyCart, []byte(`abc`)))

	got, err := m.Load(ctx, KeyCart)
	require.NoError(t, err)
	got[0] = 'x'

	again, err := m.Load(ctx, KeyCart)
	require.NoError(t, err)
	assert.Equal(t, `abc`, string(again))
}
