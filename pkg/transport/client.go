package transport

import (
	"fmt"
	"net"
	"time"

	"github.com/quantedge/matchcore/pkg/core"
)

// Client is a thin synchronous wrapper around a transport connection,
// grounded on original_source's Client.cpp request/response pairing: one
// write followed by one (or, for a filling NewOrder, two) reads.
type Client struct {
	conn net.Conn
}

// Dial connects to a matchcore server at addr.
func Dial(addr string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error { return c.conn.Close() }

func now() uint64 { return uint64(time.Now().UnixNano()) }

// SubmitOrder sends a NewOrderMessage and returns the ack, followed by any
// execution report the server attached when the order matched immediately.
func (c *Client) SubmitOrder(clientOrderID uint64, symbol string, side core.Side, orderType core.OrderType, price core.Price, quantity core.Quantity, stopPrice core.Price, clientID string) (*OrderAckMessage, *ExecutionReportMessage, error) {
	msg := NewOrderMessage{
		ClientOrderID: clientOrderID,
		Side:          uint8(side),
		OrderType:     uint8(orderType),
		Price:         int64(price),
		Quantity:      uint64(quantity),
		StopPrice:     int64(stopPrice),
	}
	SetFixedString(msg.Symbol[:], symbol)
	SetFixedString(msg.ClientID[:], clientID)

	if err := WriteMessage(c.conn, KindNewOrder, now(), &msg); err != nil {
		return nil, nil, err
	}

	kind, body, err := ReadMessage(c.conn)
	if err != nil {
		return nil, nil, err
	}
	ack, ok := body.(*OrderAckMessage)
	if !ok || kind != KindOrderAck {
		return nil, nil, fmt.Errorf("transport: expected order ack, got %s", kind)
	}

	c.conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	defer c.conn.SetReadDeadline(time.Time{})

	kind, body, err = ReadMessage(c.conn)
	if err != nil {
		return ack, nil, nil // no execution report pending, order rested untouched
	}
	if exec, ok := body.(*ExecutionReportMessage); ok && kind == KindExecutionReport {
		return ack, exec, nil
	}
	return ack, nil, nil
}

// CancelOrder sends a CancelOrderMessage and returns the ack.
func (c *Client) CancelOrder(orderID uint64, clientID string) (*OrderAckMessage, error) {
	msg := CancelOrderMessage{OrderID: orderID}
	SetFixedString(msg.ClientID[:], clientID)

	if err := WriteMessage(c.conn, KindCancelOrder, now(), &msg); err != nil {
		return nil, err
	}
	kind, body, err := ReadMessage(c.conn)
	if err != nil {
		return nil, err
	}
	ack, ok := body.(*OrderAckMessage)
	if !ok || kind != KindOrderAck {
		return nil, fmt.Errorf("transport: expected order ack, got %s", kind)
	}
	return ack, nil
}

// ModifyOrder sends a ModifyOrderMessage and returns the ack.
func (c *Client) ModifyOrder(orderID uint64, newPrice core.Price, newQuantity core.Quantity, clientID string) (*OrderAckMessage, error) {
	msg := ModifyOrderMessage{OrderID: orderID, NewPrice: int64(newPrice), NewQuantity: uint64(newQuantity)}
	SetFixedString(msg.ClientID[:], clientID)

	if err := WriteMessage(c.conn, KindModifyOrder, now(), &msg); err != nil {
		return nil, err
	}
	kind, body, err := ReadMessage(c.conn)
	if err != nil {
		return nil, err
	}
	ack, ok := body.(*OrderAckMessage)
	if !ok || kind != KindOrderAck {
		return nil, fmt.Errorf("transport: expected order ack, got %s", kind)
	}
	return ack, nil
}

// Heartbeat sends a HeartbeatMessage and waits for the echo, returning the
// round-trip latency.
func (c *Client) Heartbeat(seq uint64) (time.Duration, error) {
	start := time.Now()
	msg := HeartbeatMessage{SequenceNumber: seq}
	if err := WriteMessage(c.conn, KindHeartbeat, now(), &msg); err != nil {
		return 0, err
	}
	kind, body, err := ReadMessage(c.conn)
	if err != nil {
		return 0, err
	}
	hb, ok := body.(*HeartbeatMessage)
	if !ok || kind != KindHeartbeat || hb.SequenceNumber != seq {
		return 0, fmt.Errorf("transport: heartbeat echo mismatch")
	}
	return time.Since(start), nil
}
