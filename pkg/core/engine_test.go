package core_test

import (
	"testing"

	"github.com/quantedge/matchcore/pkg/backend/memory"
	"github.com/quantedge/matchcore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *core.Engine {
	return core.NewEngine(memory.NewFactory())
}

func TestEngine_SubmitAllocatesIncreasingIDs(t *testing.T) {
	e := newEngine()
	d1 := e.Submit("BTCUSD", core.Buy, core.Limit, 1000000, 5, 0, "")
	d2 := e.Submit("BTCUSD", core.Buy, core.Limit, 1000000, 5, 0, "")

	assert.NotEqual(t, d1.Order.ID(), d2.Order.ID())
}

func TestEngine_SubmitRoutesBySymbol(t *testing.T) {
	e := newEngine()
	e.Submit("BTCUSD", core.Sell, core.Limit, 1000000, 5, 0, "")
	e.Submit("ETHUSD", core.Sell, core.Limit, 500000, 5, 0, "")

	btcAsk, ok := e.BestAsk("BTCUSD")
	require.True(t, ok)
	assert.Equal(t, core.Price(1000000), btcAsk)

	ethAsk, ok := e.BestAsk("ETHUSD")
	require.True(t, ok)
	assert.Equal(t, core.Price(500000), ethAsk)
}

func TestEngine_OnOrderFiresPreAndPostMatch(t *testing.T) {
	e := newEngine()
	var statuses []core.OrderStatus
	e.OnOrder(func(o *core.Order) { statuses = append(statuses, o.Status()) })

	e.Submit("BTCUSD", core.Buy, core.Limit, 1000000, 5, 0, "")

	require.Len(t, statuses, 2)
	assert.Equal(t, core.Pending, statuses[0])
	assert.Equal(t, core.Pending, statuses[1])
}

func TestEngine_OnTradeFiresPerTrade(t *testing.T) {
	e := newEngine()
	var trades []core.Trade
	e.OnTrade(func(tr core.Trade) { trades = append(trades, tr) })

	e.Submit("BTCUSD", core.Sell, core.Limit, 1000000, 5, 0, "")
	e.Submit("BTCUSD", core.Buy, core.Limit, 1000000, 5, 0, "")

	require.Len(t, trades, 1)
	assert.Equal(t, core.Quantity(5), trades[0].Quantity)
}

func TestEngine_CancelAndGet(t *testing.T) {
	e := newEngine()
	done := e.Submit("BTCUSD", core.Buy, core.Limit, 1000000, 5, 0, "")
	id := done.Order.ID()

	resting, ok := e.Get(id)
	require.True(t, ok)
	assert.Equal(t, id, resting.ID())

	canceled, ok := e.Cancel(id)
	require.True(t, ok)
	assert.Equal(t, core.Canceled, canceled.Status())

	_, ok = e.Get(id)
	assert.False(t, ok)
}

func TestEngine_ModifyKeepsOrderIndexed(t *testing.T) {
	e := newEngine()
	done := e.Submit("BTCUSD", core.Buy, core.Limit, 1000000, 5, 0, "")
	id := done.Order.ID()

	modified, ok := e.Modify(id, 1010000, 8)
	require.True(t, ok)
	assert.Equal(t, core.Quantity(8), modified.Remaining())

	got, ok := e.Get(id)
	require.True(t, ok)
	assert.Equal(t, core.Price(1010000), got.Price())
}

func TestEngine_StatsCountOrdersAndTrades(t *testing.T) {
	e := newEngine()
	e.Submit("BTCUSD", core.Sell, core.Limit, 1000000, 5, 0, "")
	e.Submit("BTCUSD", core.Buy, core.Limit, 1000000, 5, 0, "")

	stats := e.Stats()
	assert.Equal(t, uint64(2), stats.TotalOrders)
	assert.Equal(t, uint64(1), stats.TotalTrades)
}

func TestEngine_SubmitLinkedCancelsSiblingOnFill(t *testing.T) {
	e := newEngine()
	sibling := e.Submit("BTCUSD", core.Buy, core.Limit, 990000, 5, 0, "")

	done := e.SubmitLinked("BTCUSD", core.Sell, 1000000, 5, "", sibling.Order.ID())
	e.Submit("BTCUSD", core.Buy, core.Limit, 1000000, 5, 0, "")

	_ = done
	_, ok := e.Get(sibling.Order.ID())
	assert.False(t, ok)
}
