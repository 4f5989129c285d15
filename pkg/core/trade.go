package core

import "time"

// Trade is an immutable execution record produced by a match. Price is
// always the resting (maker) order's price, never the taker's.
type Trade struct {
	BuyOrderID  OrderID
	SellOrderID OrderID
	Symbol      string
	Price       Price
	Quantity    Quantity
	Timestamp   time.Time
}
