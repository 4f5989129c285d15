// Package transport implements the wire protocol clients use to submit
// orders and receive execution reports: a small TCP service carrying
// fixed-layout records, grounded directly on
// original_source/include/Message.h and src/Server.cpp. Every message
// struct here has only fixed-size fields (byte arrays and integers) so it
// serializes with a single encoding/binary.Write/Read, mirroring the
// original's std::memcpy-based MessageSerializer without needing a parser.
package transport

// MessageKind identifies the payload that follows a Header, mirroring
// original_source's MessageType enum.
type MessageKind uint8

const (
	KindNewOrder MessageKind = iota
	KindCancelOrder
	KindModifyOrder
	KindOrderAck
	KindOrderReject
	KindExecutionReport
	KindMarketData
	KindHeartbeat
)

func (k MessageKind) String() string {
	switch k {
	case KindNewOrder:
		return "NEW_ORDER"
	case KindCancelOrder:
		return "CANCEL_ORDER"
	case KindModifyOrder:
		return "MODIFY_ORDER"
	case KindOrderAck:
		return "ORDER_ACK"
	case KindOrderReject:
		return "ORDER_REJECT"
	case KindExecutionReport:
		return "EXECUTION_REPORT"
	case KindMarketData:
		return "MARKET_DATA"
	case KindHeartbeat:
		return "HEARTBEAT"
	default:
		return "UNKNOWN"
	}
}

// Header precedes every message body on the wire.
type Header struct {
	Kind      MessageKind
	_         [3]byte // padding, keeps Length 4-byte aligned like the C++ struct
	Length    uint32
	Timestamp uint64
}

// NewOrderMessage submits an order. ClientOrderID lets a client correlate
// the eventual OrderAckMessage with the request that produced it.
type NewOrderMessage struct {
	ClientOrderID uint64
	Symbol        [16]byte
	Side          uint8
	OrderType     uint8
	_             [6]byte
	Price         int64
	Quantity      uint64
	StopPrice     int64
	ClientID      [32]byte
}

// CancelOrderMessage cancels a resting order by its server-assigned id.
type CancelOrderMessage struct {
	OrderID  uint64
	ClientID [32]byte
}

// ModifyOrderMessage replaces a resting order's price and quantity.
type ModifyOrderMessage struct {
	OrderID     uint64
	NewPrice    int64
	NewQuantity uint64
	ClientID    [32]byte
}

// OrderAckMessage is the immediate response to a NewOrderMessage.
type OrderAckMessage struct {
	ClientOrderID uint64
	OrderID       uint64
	Status        uint8
	_             [7]byte
	Message       [128]byte
}

// OrderRejectMessage carries a rejection reason for a client order id.
// pkg/gateway does not send it: a rejected or unfilled submission (such as
// a FOK order that could not be filled entirely) is answered with an
// OrderAckMessage whose Status reports the outcome.
type OrderRejectMessage struct {
	ClientOrderID uint64
	Reason        [256]byte
}

// ExecutionReportMessage reports one trade's effect on one of its orders.
type ExecutionReportMessage struct {
	OrderID           uint64
	Symbol            [16]byte
	Side              uint8
	_                 [7]byte
	ExecutionPrice    int64
	ExecutionQuantity uint64
	RemainingQuantity uint64
	Status            uint8
	_                 [7]byte
	TradeID           uint64
}

// MarketDataMessage reports top-of-book state for a symbol.
type MarketDataMessage struct {
	Symbol      [16]byte
	BestBid     int64
	BestAsk     int64
	BidQuantity uint64
	AskQuantity uint64
}

// HeartbeatMessage keeps idle connections alive and lets a client detect a
// silently dropped server.
type HeartbeatMessage struct {
	SequenceNumber uint64
}

// SetFixedString copies s into dst, zero-padding or truncating to fit.
func SetFixedString(dst []byte, s string) {
	for i := range dst {
		dst[i] = 0
	}
	copy(dst, s)
}

// GetFixedString returns the NUL-terminated string stored in src.
func GetFixedString(src []byte) string {
	n := 0
	for n < len(src) && src[n] != 0 {
		n++
	}
	return string(src[:n])
}
