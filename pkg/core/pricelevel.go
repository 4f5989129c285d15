package core

import "container/list"

// PriceLevel holds every resting order at a single price, in strict arrival
// order. Removal by id is O(1) via an id->element index, mirroring
// original_source's std::list plus unordered_map pairing rather than the
// teacher's map-only OrderQueue, which cannot preserve arrival order (see
// DESIGN.md).
type PriceLevel struct {
	price    Price
	total    Quantity
	orders   *list.List
	byID     map[OrderID]*list.Element
}

// NewPriceLevel constructs an empty level at price.
func NewPriceLevel(price Price) *PriceLevel {
	return &PriceLevel{
		price:  price,
		orders: list.New(),
		byID:   make(map[OrderID]*list.Element),
	}
}

func (l *PriceLevel) Price() Price          { return l.price }
func (l *PriceLevel) TotalQuantity() Quantity { return l.total }
func (l *PriceLevel) Len() int              { return l.orders.Len() }
func (l *PriceLevel) IsEmpty() bool         { return l.orders.Len() == 0 }

// PushBack appends an order to the tail of the FIFO queue.
func (l *PriceLevel) PushBack(o *Order) {
	elem := l.orders.PushBack(o)
	l.byID[o.ID()] = elem
	l.total += o.Remaining()
}

// Front returns the order at the head of the queue, or nil if empty.
func (l *PriceLevel) Front() *Order {
	elem := l.orders.Front()
	if elem == nil {
		return nil
	}
	return elem.Value.(*Order)
}

// Remove deletes the order with the given id from the level. Reports
// whether the order was present.
func (l *PriceLevel) Remove(id OrderID) bool {
	elem, ok := l.byID[id]
	if !ok {
		return false
	}
	order := elem.Value.(*Order)
	l.total -= order.Remaining()
	l.orders.Remove(elem)
	delete(l.byID, id)
	return true
}

// Get returns the order with the given id without removing it.
func (l *PriceLevel) Get(id OrderID) (*Order, bool) {
	elem, ok := l.byID[id]
	if !ok {
		return nil, false
	}
	return elem.Value.(*Order), true
}

// ReduceBy decreases the level's aggregate quantity without removing the
// order, used by the matching loop as it fills the order in place.
func (l *PriceLevel) ReduceBy(qty Quantity) {
	l.total -= qty
}

// Orders returns every order in the level in FIFO order. Intended for
// market-data snapshots and tests; callers must not mutate the slice's
// backing orders concurrently with the book's mutex held elsewhere.
func (l *PriceLevel) Orders() []*Order {
	out := make([]*Order, 0, l.orders.Len())
	for elem := l.orders.Front(); elem != nil; elem = elem.Next() {
		out = append(out, elem.Value.(*Order))
	}
	return out
}
