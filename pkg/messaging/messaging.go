// Package messaging decouples the gateway from a specific execution-report
// transport, grounded on the teacher's pkg/messaging/messaging.go
// MessageSender split. Every filled or partially filled submission is
// handed back over the same TCP connection that submitted it (see
// pkg/gateway) and, in addition, published through a Sender for
// request-scoped replay if that connection drops. This is not the
// broadcast market-data fan-out spec.md's Non-goals exclude: there is no
// independent subscriber feed, only a keyed republish of a report already
// delivered synchronously to its owner.
package messaging

import "github.com/quantedge/matchcore/pkg/core"

// Sender publishes an ExecutionReport for asynchronous redelivery.
type Sender interface {
	Send(report ExecutionReport) error
	Close() error
}

// ExecutionReport mirrors the wire ExecutionReportMessage (pkg/transport)
// in a transport-independent shape, keyed by client tag for partitioning.
type ExecutionReport struct {
	OrderID           core.OrderID
	ClientTag         string
	Symbol            string
	Side              core.Side
	Status            core.OrderStatus
	ExecutionPrice    core.Price
	ExecutionQuantity core.Quantity
	RemainingQuantity core.Quantity
	TradeID           uint64
}

// FromTrade builds the ExecutionReport for one side of a trade.
func FromTrade(order *core.Order, trade core.Trade, tradeID uint64) ExecutionReport {
	return ExecutionReport{
		OrderID:           order.ID(),
		ClientTag:         order.ClientTag(),
		Symbol:            trade.Symbol,
		Side:              order.Side(),
		Status:            order.Status(),
		ExecutionPrice:    trade.Price,
		ExecutionQuantity: trade.Quantity,
		RemainingQuantity: order.Remaining(),
		TradeID:           tradeID,
	}
}
