// Package memory implements core.OrderBookBackend with an in-process,
// sorted-linked-list price ladder, grounded on the teacher's
// pkg/backend/memory/memory_backend.go OrderSide/OrderQueue structure. It
// is the default, source-of-truth backend; pkg/backend/redis wraps an
// instance of it to add a read-through market-data mirror.
package memory

import (
	"sync"

	"github.com/quantedge/matchcore/pkg/core"
)

// node is one price level in a side's sorted doubly linked list.
type node struct {
	level *core.PriceLevel
	next  *node
	prev  *node
}

// ladder is one side of the book: a sorted linked list of price levels plus
// a price->node index for O(1) level lookup, mirroring the teacher's
// OrderSide.
type ladder struct {
	head, tail *node
	byPrice    map[core.Price]*node
	better     func(a, b core.Price) bool // true if a should sit ahead of b
}

func newLadder(better func(a, b core.Price) bool) *ladder {
	return &ladder{byPrice: make(map[core.Price]*node), better: better}
}

func (l *ladder) find(price core.Price) (*core.PriceLevel, bool) {
	n, ok := l.byPrice[price]
	if !ok {
		return nil, false
	}
	return n.level, true
}

func (l *ladder) levels() []*core.PriceLevel {
	out := make([]*core.PriceLevel, 0, len(l.byPrice))
	for n := l.head; n != nil; n = n.next {
		out = append(out, n.level)
	}
	return out
}

// getOrCreate returns the level at price, inserting a new node in sorted
// position if one does not already exist.
func (l *ladder) getOrCreate(price core.Price) *core.PriceLevel {
	if existing, ok := l.byPrice[price]; ok {
		return existing.level
	}

	n := &node{level: core.NewPriceLevel(price)}
	l.byPrice[price] = n

	if l.head == nil {
		l.head = n
		l.tail = n
		return n.level
	}

	if l.better(price, l.head.level.Price()) {
		n.next = l.head
		l.head.prev = n
		l.head = n
		return n.level
	}
	if !l.better(price, l.tail.level.Price()) {
		n.prev = l.tail
		l.tail.next = n
		l.tail = n
		return n.level
	}

	cur := l.head
	for cur != nil && l.better(cur.level.Price(), price) {
		cur = cur.next
	}
	n.next = cur
	n.prev = cur.prev
	cur.prev.next = n
	cur.prev = n
	return n.level
}

// dropIfEmpty removes the node for price from the list once its level has
// no resting orders left.
func (l *ladder) dropIfEmpty(price core.Price) {
	n, ok := l.byPrice[price]
	if !ok || !n.level.IsEmpty() {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	delete(l.byPrice, price)
}

// Backend is the in-memory, in-process OrderBookBackend implementation.
type Backend struct {
	mu         sync.RWMutex
	orders     map[core.OrderID]*core.Order
	bids       *ladder
	asks       *ladder
	ocoMapping map[core.OrderID]core.OrderID
}

// New constructs an empty Backend.
func New() *Backend {
	return &Backend{
		orders:     make(map[core.OrderID]*core.Order),
		bids:       newLadder(func(a, b core.Price) bool { return a > b }),
		asks:       newLadder(func(a, b core.Price) bool { return a < b }),
		ocoMapping: make(map[core.OrderID]core.OrderID),
	}
}

// NewFactory adapts New to core.BackendFactory, ignoring the symbol: every
// symbol gets its own independent Backend instance via the Engine's
// per-symbol book registry, so the factory itself is stateless.
func NewFactory() core.BackendFactory {
	return func(string) core.OrderBookBackend { return New() }
}

func (b *Backend) ladderFor(side core.Side) *ladder {
	if side == core.Buy {
		return b.bids
	}
	return b.asks
}

func (b *Backend) GetOrder(id core.OrderID) (*core.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.orders[id]
	return o, ok
}

func (b *Backend) AddOrder(o *core.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.orders[o.ID()] = o
	level := b.ladderFor(o.Side()).getOrCreate(o.Price())
	level.PushBack(o)

	if o.HasOCO() {
		b.ocoMapping[o.ID()] = o.OCOID()
		b.ocoMapping[o.OCOID()] = o.ID()
	}
}

func (b *Backend) RemoveOrder(id core.OrderID) (*core.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[id]
	if !ok {
		return nil, false
	}

	l := b.ladderFor(o.Side())
	if level, ok := l.find(o.Price()); ok {
		level.Remove(id)
		l.dropIfEmpty(o.Price())
	}

	delete(b.orders, id)
	if sibling, ok := b.ocoMapping[id]; ok {
		delete(b.ocoMapping, id)
		delete(b.ocoMapping, sibling)
	}

	return o, true
}

func (b *Backend) Levels(side core.Side) []*core.PriceLevel {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ladderFor(side).levels()
}

func (b *Backend) LevelAt(side core.Side, price core.Price) (*core.PriceLevel, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ladderFor(side).find(price)
}

func (b *Backend) BestPrice(side core.Side) (core.Price, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	l := b.ladderFor(side)
	if l.head == nil {
		return 0, false
	}
	return l.head.level.Price(), true
}

func (b *Backend) CheckOCO(id core.OrderID) (core.OrderID, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	sibling, ok := b.ocoMapping[id]
	return sibling, ok
}

func (b *Backend) OrderCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.orders)
}
