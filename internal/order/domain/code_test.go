package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedemptionCodeShape(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := NewRedemptionCode()

		require.Len(t, code, 19)
		assert.Equal(t, byte('-'), code[4])
		assert.Equal(t, byte('-'), code[9])
		assert.Equal(t, byte('-'), code[14])

		for pos, c := range code {
			if pos == 4 || pos == 9 || pos == 14 {
				continue
			}
			assert.True(t, strings.ContainsRune(codeAlphabet, c), "unexpected character %q at %d", c, pos)
		}
	}
}

func TestOrderIDPrefixAndUniqueness(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewOrderID()
		assert.True(t, strings.HasPrefix(id, "ORD-"))
		require.False(t, seen[id], "duplicate order id %s", id)
		seen[id] = true
	}
}

func TestNewOrderComputesTotal(t *testing.T) {
	o := NewOrder("ORD-1", "u1", "qris", []Item{
		{ID: "p1", Price: 20000, Quantity: 2},
		{ID: "p2", Price: 500, Quantity: 3},
	})

	assert.Equal(t, int64(41500), o.Total)
	assert.Equal(t, StatusCompleted, o.Status)
	assert.Len(t, o.Code, 19)
}
