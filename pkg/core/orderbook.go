package core

import (
	"sync"
	"time"
)

// Done is the result of submitting an order to an OrderBook: the resulting
// trades plus the ids of any other resting orders canceled as a side
// effect of this submission (currently only OCO siblings).
type Done struct {
	Order    *Order
	Trades   []Trade
	Canceled []OrderID
}

// OrderBook matches incoming orders for a single symbol against one
// OrderBookBackend. Each book owns its own mutex; callers holding an
// Engine-level lock must acquire a book's lock only after releasing the
// engine's, never the reverse, to avoid deadlock across symbols.
type OrderBook struct {
	symbol  string
	backend OrderBookBackend
	mu      sync.Mutex
}

// NewOrderBook constructs a book for symbol backed by backend.
func NewOrderBook(symbol string, backend OrderBookBackend) *OrderBook {
	return &OrderBook{symbol: symbol, backend: backend}
}

func (b *OrderBook) Symbol() string { return b.symbol }

// Match runs incoming against the book and returns the resulting trades.
// incoming is never mutated concurrently by anything else once passed in.
func (b *OrderBook) Match(incoming *Order) Done {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch incoming.Type() {
	case Market:
		return b.matchMarket(incoming)
	case Limit, StopLoss, StopLimit:
		return b.matchLimit(incoming)
	case IOC:
		return b.matchIOC(incoming)
	case FOK:
		return b.matchFOK(incoming)
	default:
		incoming.SetStatus(Rejected)
		return Done{Order: incoming}
	}
}

func (b *OrderBook) matchMarket(incoming *Order) Done {
	trades := b.executeMatches(incoming, func(Price) bool { return true })
	done := Done{Order: incoming, Trades: trades}
	if incoming.Remaining() > 0 {
		incoming.SetStatus(Canceled)
	}
	return done
}

func (b *OrderBook) matchLimit(incoming *Order) Done {
	trades := b.executeMatches(incoming, b.crossPredicate(incoming))
	done := Done{Order: incoming, Trades: trades}
	if incoming.Remaining() > 0 {
		b.backend.AddOrder(incoming)
	} else if incoming.HasOCO() {
		siblingID := incoming.OCOID()
		if sibling, ok := b.backend.RemoveOrder(siblingID); ok {
			sibling.SetStatus(Canceled)
			done.Canceled = append(done.Canceled, siblingID)
		}
	}
	return done
}

func (b *OrderBook) matchIOC(incoming *Order) Done {
	trades := b.executeMatches(incoming, b.crossPredicate(incoming))
	if incoming.Remaining() > 0 {
		incoming.SetStatus(Canceled)
	}
	return Done{Order: incoming, Trades: trades}
}

func (b *OrderBook) matchFOK(incoming *Order) Done {
	if !b.canFillEntirely(incoming) {
		incoming.SetStatus(Canceled)
		return Done{Order: incoming}
	}
	trades := b.executeMatches(incoming, b.crossPredicate(incoming))
	return Done{Order: incoming, Trades: trades}
}

// crossPredicate reports, for a price-limited order, whether a resting
// level at levelPrice is marketable against incoming.
func (b *OrderBook) crossPredicate(incoming *Order) func(Price) bool {
	price := incoming.Price()
	if incoming.Side() == Buy {
		return func(levelPrice Price) bool { return levelPrice <= price }
	}
	return func(levelPrice Price) bool { return levelPrice >= price }
}

// canFillEntirely dry-runs liquidity across crossing levels without
// mutating any state, used by FOK to decide atomically whether to execute
// at all.
func (b *OrderBook) canFillEntirely(incoming *Order) bool {
	crosses := b.crossPredicate(incoming)
	opposite := incoming.Side().Opposite()
	need := incoming.Remaining()
	var available Quantity
	for _, level := range b.backend.Levels(opposite) {
		if !crosses(level.Price()) {
			break
		}
		available += level.TotalQuantity()
		if available >= need {
			return true
		}
	}
	return available >= need
}

// executeMatches walks the opposite side's levels in price-time priority,
// filling incoming until either it is exhausted, the book runs out of
// marketable liquidity, or crosses returns false for the best remaining
// level. Trade price is always the resting order's price.
func (b *OrderBook) executeMatches(incoming *Order, crosses func(Price) bool) []Trade {
	opposite := incoming.Side().Opposite()
	var trades []Trade

	for incoming.Remaining() > 0 {
		levels := b.backend.Levels(opposite)
		if len(levels) == 0 {
			break
		}
		level := levels[0]
		if !crosses(level.Price()) {
			break
		}

		for incoming.Remaining() > 0 && !level.IsEmpty() {
			resting := level.Front()
			fillQty := incoming.Remaining()
			if resting.Remaining() < fillQty {
				fillQty = resting.Remaining()
			}

			incoming.Fill(fillQty)
			resting.Fill(fillQty)
			level.ReduceBy(fillQty)

			trades = append(trades, Trade{
				BuyOrderID:  buyOrderID(incoming, resting),
				SellOrderID: sellOrderID(incoming, resting),
				Symbol:      b.symbol,
				Price:       resting.Price(),
				Quantity:    fillQty,
				Timestamp:   time.Now(),
			})

			if resting.IsFilled() {
				b.backend.RemoveOrder(resting.ID())
			}
		}
	}
	return trades
}

func buyOrderID(incoming, resting *Order) OrderID {
	if incoming.Side() == Buy {
		return incoming.ID()
	}
	return resting.ID()
}

func sellOrderID(incoming, resting *Order) OrderID {
	if incoming.Side() == Sell {
		return incoming.ID()
	}
	return resting.ID()
}

// Cancel removes a resting order from the book.
func (b *OrderBook) Cancel(id OrderID) (*Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	order, ok := b.backend.RemoveOrder(id)
	if !ok {
		return nil, false
	}
	order.SetStatus(Canceled)
	return order, true
}

// Modify replaces a resting order's price and/or quantity. Per the
// price-time-priority invariant, a modified order loses its place in the
// queue and is re-inserted at the back of its (possibly new) price level;
// it is never re-matched against the book as part of the modification.
func (b *OrderBook) Modify(id OrderID, newPrice Price, newQuantity Quantity) (*Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	order, ok := b.backend.RemoveOrder(id)
	if !ok {
		return nil, false
	}
	order.SetPrice(newPrice)
	order.SetQuantity(newQuantity)
	order.SetStatus(Pending)
	b.backend.AddOrder(order)
	return order, true
}

// GetOrder returns the resting order with the given id, if any.
func (b *OrderBook) GetOrder(id OrderID) (*Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.backend.GetOrder(id)
}

// BestBid returns the highest resting buy price.
func (b *OrderBook) BestBid() (Price, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.backend.BestPrice(Buy)
}

// BestAsk returns the lowest resting sell price.
func (b *OrderBook) BestAsk() (Price, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.backend.BestPrice(Sell)
}

// Depth returns up to levels price/quantity pairs for side, best price first.
func (b *OrderBook) Depth(side Side, levels int) []PriceLevelView {
	b.mu.Lock()
	defer b.mu.Unlock()

	all := b.backend.Levels(side)
	if levels > len(all) {
		levels = len(all)
	}
	out := make([]PriceLevelView, 0, levels)
	for i := 0; i < levels; i++ {
		out = append(out, PriceLevelView{Price: all[i].Price(), Quantity: all[i].TotalQuantity()})
	}
	return out
}

// PriceLevelView is a read-only snapshot of one side of the book at one
// price, used for market-data queries and the transport layer.
type PriceLevelView struct {
	Price    Price
	Quantity Quantity
}
