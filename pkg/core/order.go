package core

import "time"

// Order is a single resting or incoming order. Orders are never shared
// across goroutines without the owning OrderBook's lock held.
type Order struct {
	id        OrderID
	symbol    string
	side      Side
	orderType OrderType
	price     Price
	quantity  Quantity
	remaining Quantity
	stopPrice Price
	status    OrderStatus
	clientTag string
	timestamp time.Time

	// ocoID links this order to a sibling order that must be canceled when
	// this one fully fills. Zero means no linkage.
	ocoID OrderID
}

// NewOrder constructs an order in Pending status with remaining quantity
// equal to quantity. stopPrice is ignored for order types other than
// StopLoss/StopLimit.
func NewOrder(id OrderID, symbol string, side Side, orderType OrderType, price Price, quantity Quantity, stopPrice Price, clientTag string) *Order {
	return &Order{
		id:        id,
		symbol:    symbol,
		side:      side,
		orderType: orderType,
		price:     price,
		quantity:  quantity,
		remaining: quantity,
		stopPrice: stopPrice,
		status:    Pending,
		clientTag: clientTag,
		timestamp: time.Now(),
	}
}

func (o *Order) ID() OrderID           { return o.id }
func (o *Order) Symbol() string        { return o.symbol }
func (o *Order) Side() Side            { return o.side }
func (o *Order) Type() OrderType       { return o.orderType }
func (o *Order) Price() Price          { return o.price }
func (o *Order) Quantity() Quantity    { return o.quantity }
func (o *Order) Remaining() Quantity   { return o.remaining }
func (o *Order) Filled() Quantity      { return o.quantity - o.remaining }
func (o *Order) StopPrice() Price      { return o.stopPrice }
func (o *Order) Status() OrderStatus   { return o.status }
func (o *Order) ClientTag() string     { return o.clientTag }
func (o *Order) Timestamp() time.Time  { return o.timestamp }
func (o *Order) OCOID() OrderID        { return o.ocoID }
func (o *Order) HasOCO() bool          { return o.ocoID != 0 }

func (o *Order) SetOCO(id OrderID) { o.ocoID = id }

// SetStatus forcibly sets status, used by the book/engine for cancel and
// reject transitions that don't go through fill.
func (o *Order) SetStatus(status OrderStatus) { o.status = status }

// SetPrice changes the resting price of an order, used by Modify. Callers
// are responsible for re-positioning the order within its price level.
func (o *Order) SetPrice(price Price) { o.price = price }

// SetQuantity replaces quantity and resets remaining to match, used by
// Modify; per spec this loses time priority and the caller must re-queue
// the order at the back of its price level.
func (o *Order) SetQuantity(quantity Quantity) {
	o.quantity = quantity
	o.remaining = quantity
}

// Fill reduces remaining by qty and updates status. qty must not exceed
// Remaining(); callers (the matching loop) guarantee this invariant.
func (o *Order) Fill(qty Quantity) {
	o.remaining -= qty
	if o.remaining == 0 {
		o.status = Filled
	} else {
		o.status = PartialFill
	}
}

func (o *Order) IsFilled() bool { return o.remaining == 0 }

func (o *Order) IsActive() bool {
	return o.status == Pending || o.status == PartialFill
}

// ShouldTrigger reports whether a stop order's trigger condition is met by
// the given reference price. BUY stop orders trigger when the market trades
// at or above the stop price; SELL stop orders trigger at or below it. The
// core exposes this predicate but does not itself poll a reference price
// against it.
func (o *Order) ShouldTrigger(currentPrice Price) bool {
	if o.orderType != StopLoss && o.orderType != StopLimit {
		return false
	}
	switch o.side {
	case Buy:
		return currentPrice >= o.stopPrice
	case Sell:
		return currentPrice <= o.stopPrice
	default:
		return false
	}
}
