package core

import (
	"sync"
	"sync/atomic"
)

// OrderObserver is notified of an order's state, once before matching (in
// Pending status) and once after (in its final status for this submission),
// mirroring spec.md's pre/post-match on_order delivery contract.
type OrderObserver func(*Order)

// TradeObserver is notified of every trade a submission produces, in the
// order the matching loop executed them.
type TradeObserver func(Trade)

// BackendFactory constructs a fresh OrderBookBackend for a symbol the first
// time the Engine sees it.
type BackendFactory func(symbol string) OrderBookBackend

// Engine routes orders to a per-symbol OrderBook, allocates ids, and tracks
// which symbol owns each live order id. The engine mutex protects only the
// symbol registry and id index; each OrderBook guards its own matching
// state with its own mutex. Lock order is always engine-then-book: the
// engine never calls into a book while holding its own lock.
type Engine struct {
	mu      sync.Mutex
	books   map[string]*OrderBook
	idIndex map[OrderID]string

	newBackend BackendFactory
	nextID     atomic.Uint64

	onOrder OrderObserver
	onTrade TradeObserver

	totalOrders atomic.Uint64
	totalTrades atomic.Uint64
}

// NewEngine constructs an Engine whose books are backed by whatever
// newBackend returns. Pass memory.NewFactory() (or a Redis-mirrored
// decorator around it) as newBackend.
func NewEngine(newBackend BackendFactory) *Engine {
	return &Engine{
		books:      make(map[string]*OrderBook),
		idIndex:    make(map[OrderID]string),
		newBackend: newBackend,
	}
}

// OnOrder registers the order observer. Not safe to call concurrently with
// Submit/Cancel/Modify.
func (e *Engine) OnOrder(fn OrderObserver) { e.onOrder = fn }

// OnTrade registers the trade observer. Not safe to call concurrently with
// Submit/Cancel/Modify.
func (e *Engine) OnTrade(fn TradeObserver) { e.onTrade = fn }

func (e *Engine) fireOnOrder(o *Order) {
	if e.onOrder != nil {
		e.onOrder(o)
	}
}

func (e *Engine) fireOnTrade(t Trade) {
	if e.onTrade != nil {
		e.onTrade(t)
	}
}

func (e *Engine) bookFor(symbol string) *OrderBook {
	e.mu.Lock()
	defer e.mu.Unlock()
	book, ok := e.books[symbol]
	if !ok {
		book = NewOrderBook(symbol, e.newBackend(symbol))
		e.books[symbol] = book
	}
	return book
}

func (e *Engine) lookupSymbol(id OrderID) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	symbol, ok := e.idIndex[id]
	return symbol, ok
}

func (e *Engine) index(id OrderID, symbol string) {
	e.mu.Lock()
	e.idIndex[id] = symbol
	e.mu.Unlock()
}

func (e *Engine) unindex(id OrderID) {
	e.mu.Lock()
	delete(e.idIndex, id)
	e.mu.Unlock()
}

// Submit allocates a new order id, notifies the order observer pre-match,
// runs the order through its symbol's book, notifies the trade observer
// for every resulting trade, notifies the order observer post-match with
// the final status, and returns the match result.
func (e *Engine) Submit(symbol string, side Side, orderType OrderType, price Price, quantity Quantity, stopPrice Price, clientTag string) Done {
	id := OrderID(e.nextID.Add(1))
	order := NewOrder(id, symbol, side, orderType, price, quantity, stopPrice, clientTag)

	e.fireOnOrder(order)

	book := e.bookFor(symbol)
	done := book.Match(order)

	e.totalOrders.Add(1)
	for _, t := range done.Trades {
		e.totalTrades.Add(1)
		e.fireOnTrade(t)
	}
	for _, canceledID := range done.Canceled {
		e.unindex(canceledID)
	}
	if order.IsActive() {
		e.index(id, symbol)
	}

	e.fireOnOrder(order)
	return done
}

// SubmitLinked submits a LIMIT order with an OCO sibling: when one leg
// fully fills, the other is canceled as part of the same Done result.
func (e *Engine) SubmitLinked(symbol string, side Side, price Price, quantity Quantity, clientTag string, siblingID OrderID) Done {
	id := OrderID(e.nextID.Add(1))
	order := NewOrder(id, symbol, side, Limit, price, quantity, 0, clientTag)
	order.SetOCO(siblingID)

	e.fireOnOrder(order)

	book := e.bookFor(symbol)
	done := book.Match(order)

	e.totalOrders.Add(1)
	for _, t := range done.Trades {
		e.totalTrades.Add(1)
		e.fireOnTrade(t)
	}
	for _, canceledID := range done.Canceled {
		e.unindex(canceledID)
	}
	if order.IsActive() {
		e.index(id, symbol)
	}

	e.fireOnOrder(order)
	return done
}

// Cancel removes a resting order, wherever it lives.
func (e *Engine) Cancel(id OrderID) (*Order, bool) {
	symbol, ok := e.lookupSymbol(id)
	if !ok {
		return nil, false
	}
	book := e.bookFor(symbol)
	order, ok := book.Cancel(id)
	if !ok {
		return nil, false
	}
	e.unindex(id)
	e.fireOnOrder(order)
	return order, true
}

// Modify changes a resting order's price and/or quantity, losing time
// priority per spec.
func (e *Engine) Modify(id OrderID, newPrice Price, newQuantity Quantity) (*Order, bool) {
	symbol, ok := e.lookupSymbol(id)
	if !ok {
		return nil, false
	}
	book := e.bookFor(symbol)
	order, ok := book.Modify(id, newPrice, newQuantity)
	if !ok {
		return nil, false
	}
	e.fireOnOrder(order)
	return order, true
}

// Get returns the resting order with the given id, if any.
func (e *Engine) Get(id OrderID) (*Order, bool) {
	symbol, ok := e.lookupSymbol(id)
	if !ok {
		return nil, false
	}
	return e.bookFor(symbol).GetOrder(id)
}

// BestBid forwards to the named symbol's book.
func (e *Engine) BestBid(symbol string) (Price, bool) {
	return e.bookFor(symbol).BestBid()
}

// BestAsk forwards to the named symbol's book.
func (e *Engine) BestAsk(symbol string) (Price, bool) {
	return e.bookFor(symbol).BestAsk()
}

// Depth forwards to the named symbol's book.
func (e *Engine) Depth(symbol string, side Side, levels int) []PriceLevelView {
	return e.bookFor(symbol).Depth(side, levels)
}

// Stats reports cumulative counters across every symbol the engine has
// handled since construction.
type Stats struct {
	TotalOrders uint64
	TotalTrades uint64
}

func (e *Engine) Stats() Stats {
	return Stats{
		TotalOrders: e.totalOrders.Load(),
		TotalTrades: e.totalTrades.Load(),
	}
}
