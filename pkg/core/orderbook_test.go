package core_test

import (
	"testing"

	"github.com/quantedge/matchcore/pkg/backend/memory"
	"github.com/quantedge/matchcore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBook() *core.OrderBook {
	return core.NewOrderBook("BTCUSD", memory.New())
}

func TestOrderBook_LimitRestsWhenNoCross(t *testing.T) {
	book := newBook()
	order := core.NewOrder(1, "BTCUSD", core.Buy, core.Limit, 1000000, 10, 0, "")

	done := book.Match(order)

	assert.Empty(t, done.Trades)
	assert.Equal(t, core.Pending, order.Status())
	resting, ok := book.GetOrder(1)
	require.True(t, ok)
	assert.Equal(t, core.Quantity(10), resting.Remaining())
}

func TestOrderBook_LimitCrossesAndFillsAtMakerPrice(t *testing.T) {
	book := newBook()
	book.Match(core.NewOrder(1, "BTCUSD", core.Sell, core.Limit, 1000000, 10, 0, ""))

	taker := core.NewOrder(2, "BTCUSD", core.Buy, core.Limit, 1010000, 10, 0, "")
	done := book.Match(taker)

	require.Len(t, done.Trades, 1)
	assert.Equal(t, core.Price(1000000), done.Trades[0].Price)
	assert.Equal(t, core.Quantity(10), done.Trades[0].Quantity)
	assert.Equal(t, core.Filled, taker.Status())

	_, stillResting := book.GetOrder(1)
	assert.False(t, stillResting)
}

func TestOrderBook_LimitPartialFillRestsRemainder(t *testing.T) {
	book := newBook()
	book.Match(core.NewOrder(1, "BTCUSD", core.Sell, core.Limit, 1000000, 4, 0, ""))

	taker := core.NewOrder(2, "BTCUSD", core.Buy, core.Limit, 1000000, 10, 0, "")
	done := book.Match(taker)

	require.Len(t, done.Trades, 1)
	assert.Equal(t, core.Quantity(4), done.Trades[0].Quantity)
	assert.Equal(t, core.PartialFill, taker.Status())
	assert.Equal(t, core.Quantity(6), taker.Remaining())

	resting, ok := book.GetOrder(2)
	require.True(t, ok)
	assert.Equal(t, core.Quantity(6), resting.Remaining())
}

func TestOrderBook_MarketConsumesMultipleLevelsByPriceTimePriority(t *testing.T) {
	book := newBook()
	book.Match(core.NewOrder(1, "BTCUSD", core.Sell, core.Limit, 1000000, 5, 0, ""))
	book.Match(core.NewOrder(2, "BTCUSD", core.Sell, core.Limit, 990000, 5, 0, ""))

	taker := core.NewOrder(3, "BTCUSD", core.Buy, core.Market, 0, 8, 0, "")
	done := book.Match(taker)

	require.Len(t, done.Trades, 2)
	assert.Equal(t, core.Price(990000), done.Trades[0].Price)
	assert.Equal(t, core.Quantity(5), done.Trades[0].Quantity)
	assert.Equal(t, core.Price(1000000), done.Trades[1].Price)
	assert.Equal(t, core.Quantity(3), done.Trades[1].Quantity)
	assert.Equal(t, core.Filled, taker.Status())
}

func TestOrderBook_MarketDoesNotRest(t *testing.T) {
	book := newBook()
	taker := core.NewOrder(1, "BTCUSD", core.Buy, core.Market, 0, 10, 0, "")
	book.Match(taker)

	assert.Equal(t, core.Canceled, taker.Status())
	_, ok := book.GetOrder(1)
	assert.False(t, ok)
}

func TestOrderBook_IOCCancelsUnfilledRemainder(t *testing.T) {
	book := newBook()
	book.Match(core.NewOrder(1, "BTCUSD", core.Sell, core.Limit, 1000000, 3, 0, ""))

	taker := core.NewOrder(2, "BTCUSD", core.Buy, core.IOC, 1000000, 10, 0, "")
	done := book.Match(taker)

	require.Len(t, done.Trades, 1)
	assert.Equal(t, core.Canceled, taker.Status())
	_, ok := book.GetOrder(2)
	assert.False(t, ok)
}

func TestOrderBook_FOKCancelsWhenInsufficientLiquidity(t *testing.T) {
	book := newBook()
	book.Match(core.NewOrder(1, "BTCUSD", core.Sell, core.Limit, 1000000, 3, 0, ""))

	taker := core.NewOrder(2, "BTCUSD", core.Buy, core.FOK, 1000000, 10, 0, "")
	done := book.Match(taker)

	assert.Empty(t, done.Trades)
	assert.Equal(t, core.Canceled, taker.Status())

	resting, ok := book.GetOrder(1)
	require.True(t, ok)
	assert.Equal(t, core.Quantity(3), resting.Remaining())
}

func TestOrderBook_FOKFillsAtomicallyWhenLiquiditySufficient(t *testing.T) {
	book := newBook()
	book.Match(core.NewOrder(1, "BTCUSD", core.Sell, core.Limit, 1000000, 6, 0, ""))
	book.Match(core.NewOrder(2, "BTCUSD", core.Sell, core.Limit, 1005000, 6, 0, ""))

	taker := core.NewOrder(3, "BTCUSD", core.Buy, core.FOK, 1010000, 10, 0, "")
	done := book.Match(taker)

	require.Len(t, done.Trades, 2)
	assert.Equal(t, core.Filled, taker.Status())
}

func TestOrderBook_StopLossIsTreatedAsLimit(t *testing.T) {
	book := newBook()
	book.Match(core.NewOrder(1, "BTCUSD", core.Sell, core.Limit, 1010000, 10, 0, ""))

	// A STOP_LOSS is dispatched using its own price, not swept unconditionally
	// like a MARKET order: at 1000000 it does not cross the 1010000 ask and
	// rests on the book instead of filling.
	taker := core.NewOrder(2, "BTCUSD", core.Buy, core.StopLoss, 1000000, 5, 990000, "")
	done := book.Match(taker)

	assert.Empty(t, done.Trades)
	assert.Equal(t, core.Pending, taker.Status())
	resting, ok := book.GetOrder(2)
	require.True(t, ok)
	assert.Equal(t, core.Quantity(5), resting.Remaining())
}

func TestOrderBook_CancelRemovesRestingOrder(t *testing.T) {
	book := newBook()
	book.Match(core.NewOrder(1, "BTCUSD", core.Buy, core.Limit, 1000000, 10, 0, ""))

	canceled, ok := book.Cancel(1)
	require.True(t, ok)
	assert.Equal(t, core.Canceled, canceled.Status())

	_, ok = book.Cancel(1)
	assert.False(t, ok)
}

func TestOrderBook_ModifyLosesTimePriority(t *testing.T) {
	book := newBook()
	book.Match(core.NewOrder(1, "BTCUSD", core.Buy, core.Limit, 1000000, 10, 0, ""))
	book.Match(core.NewOrder(2, "BTCUSD", core.Buy, core.Limit, 1000000, 5, 0, ""))

	modified, ok := book.Modify(1, 1000000, 3)
	require.True(t, ok)
	assert.Equal(t, core.Quantity(3), modified.Remaining())

	taker := core.NewOrder(3, "BTCUSD", core.Sell, core.Limit, 1000000, 3, 0, "")
	done := book.Match(taker)

	require.Len(t, done.Trades, 1)
	assert.Equal(t, core.OrderID(2), done.Trades[0].BuyOrderID)
}

func TestOrderBook_OCOCancelsSiblingOnFill(t *testing.T) {
	book := newBook()
	sibling := core.NewOrder(2, "BTCUSD", core.Buy, core.Limit, 990000, 5, 0, "")
	book.Match(sibling)

	primary := core.NewOrder(1, "BTCUSD", core.Sell, core.Limit, 1000000, 5, 0, "")
	primary.SetOCO(2)
	book.Match(primary)

	taker := core.NewOrder(3, "BTCUSD", core.Buy, core.Limit, 1000000, 5, 0, "")
	done := book.Match(taker)

	require.Len(t, done.Trades, 1)
	require.Len(t, done.Canceled, 1)
	assert.Equal(t, core.OrderID(2), done.Canceled[0])

	_, ok := book.GetOrder(2)
	assert.False(t, ok)
}

func TestOrderBook_BestBidAskAndDepth(t *testing.T) {
	book := newBook()
	book.Match(core.NewOrder(1, "BTCUSD", core.Buy, core.Limit, 1000000, 5, 0, ""))
	book.Match(core.NewOrder(2, "BTCUSD", core.Buy, core.Limit, 1010000, 5, 0, ""))
	book.Match(core.NewOrder(3, "BTCUSD", core.Sell, core.Limit, 1030000, 5, 0, ""))

	bid, ok := book.BestBid()
	require.True(t, ok)
	assert.Equal(t, core.Price(1010000), bid)

	ask, ok := book.BestAsk()
	require.True(t, ok)
	assert.Equal(t, core.Price(1030000), ask)

	depth := book.Depth(core.Buy, 10)
	require.Len(t, depth, 2)
	assert.Equal(t, core.Price(1010000), depth[0].Price)
}
