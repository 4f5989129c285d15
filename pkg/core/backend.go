package core

// OrderBookBackend stores the resting state of a single symbol's book: the
// bid/ask price levels and the id->order index. OrderBook drives matching
// logic against this interface so the in-memory implementation
// (pkg/backend/memory) and the Redis-mirrored decorator
// (pkg/backend/redis) are interchangeable, grounded on the teacher's
// pkg/core/backend.go split between matching logic and storage.
type OrderBookBackend interface {
	// GetOrder returns the resting order with the given id.
	GetOrder(id OrderID) (*Order, bool)

	// AddOrder inserts a resting order into the appropriate side's price
	// level, creating the level if it does not yet exist.
	AddOrder(o *Order)

	// RemoveOrder deletes a resting order from its price level and the
	// id index. The level is dropped once it becomes empty.
	RemoveOrder(id OrderID) (*Order, bool)

	// Levels returns the price-ordered levels for a side: bids descending
	// by price, asks ascending by price.
	Levels(side Side) []*PriceLevel

	// LevelAt returns the level at a given price on a given side, if any.
	LevelAt(side Side, price Price) (*PriceLevel, bool)

	// BestPrice returns the best (first-to-match) price on a side.
	BestPrice(side Side) (Price, bool)

	// CheckOCO returns the sibling order linked to id via one-cancels-other,
	// if any, so the caller can cancel it once id fully fills.
	CheckOCO(id OrderID) (OrderID, bool)

	// OrderCount reports how many resting orders the backend currently holds.
	OrderCount() int
}
