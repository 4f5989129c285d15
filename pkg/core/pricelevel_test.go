package core_test

import (
	"testing"

	"github.com/quantedge/matchcore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceLevel_FIFOOrder(t *testing.T) {
	level := core.NewPriceLevel(1000000)
	a := core.NewOrder(1, "BTCUSD", core.Buy, core.Limit, 1000000, 5, 0, "")
	b := core.NewOrder(2, "BTCUSD", core.Buy, core.Limit, 1000000, 5, 0, "")
	c := core.NewOrder(3, "BTCUSD", core.Buy, core.Limit, 1000000, 5, 0, "")

	level.PushBack(a)
	level.PushBack(b)
	level.PushBack(c)

	assert.Equal(t, core.Quantity(15), level.TotalQuantity())
	assert.Equal(t, a, level.Front())

	level.Remove(1)
	assert.Equal(t, b, level.Front())
	assert.Equal(t, core.Quantity(10), level.TotalQuantity())
}

func TestPriceLevel_RemoveUnknownIsNoop(t *testing.T) {
	level := core.NewPriceLevel(1000000)
	assert.False(t, level.Remove(999))
}

func TestPriceLevel_GetByID(t *testing.T) {
	level := core.NewPriceLevel(1000000)
	a := core.NewOrder(1, "BTCUSD", core.Buy, core.Limit, 1000000, 5, 0, "")
	level.PushBack(a)

	got, ok := level.Get(1)
	require.True(t, ok)
	assert.Equal(t, a, got)

	_, ok = level.Get(2)
	assert.False(t, ok)
}

func TestPriceLevel_OrdersSnapshotPreservesArrivalOrder(t *testing.T) {
	level := core.NewPriceLevel(1000000)
	ids := []core.OrderID{5, 3, 8, 1}
	for _, id := range ids {
		level.PushBack(core.NewOrder(id, "BTCUSD", core.Buy, core.Limit, 1000000, 1, 0, ""))
	}

	orders := level.Orders()
	require.Len(t, orders, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, orders[i].ID())
	}
}
