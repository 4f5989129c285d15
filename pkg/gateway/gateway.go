// Package gateway dispatches decoded wire commands (pkg/transport) to a
// core.Engine and translates the engine's results back into wire
// responses, grounded on original_source's
// Server::handleNewOrder/handleCancelOrder/handleModifyOrder. Where the
// original sent at most one ExecutionReportMessage carrying the order's
// final aggregate state, this gateway sends one per trade the submission
// produced, matching messaging.FromTrade's per-trade shape and letting a
// client observe every fill a single marketable order swept through.
package gateway

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/quantedge/matchcore/pkg/core"
	"github.com/quantedge/matchcore/pkg/messaging"
	"github.com/quantedge/matchcore/pkg/otel"
	"github.com/quantedge/matchcore/pkg/transport"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// Gateway implements transport.Handler over a core.Engine.
type Gateway struct {
	engine  *core.Engine
	sender  messaging.Sender
	log     zerolog.Logger
	cfg     Config
	tradeID atomic.Uint64
}

// New builds a Gateway using the default Config. sender receives a copy of
// every execution report for asynchronous redelivery; pass
// messaging.NewMockSender() to disable.
func New(engine *core.Engine, sender messaging.Sender, log zerolog.Logger) *Gateway {
	return NewWithConfig(engine, sender, log, LoadConfig())
}

// NewWithConfig builds a Gateway with an explicit Config, bypassing the
// environment lookup in LoadConfig (used by tests).
func NewWithConfig(engine *core.Engine, sender messaging.Sender, log zerolog.Logger, cfg Config) *Gateway {
	return &Gateway{engine: engine, sender: sender, log: log, cfg: cfg}
}

var _ transport.Handler = (*Gateway)(nil)

func (g *Gateway) Handle(ctx context.Context, conn net.Conn, kind transport.MessageKind, body any) error {
	switch kind {
	case transport.KindNewOrder:
		return g.handleNewOrder(ctx, conn, body.(*transport.NewOrderMessage))
	case transport.KindCancelOrder:
		return g.handleCancelOrder(ctx, conn, body.(*transport.CancelOrderMessage))
	case transport.KindModifyOrder:
		return g.handleModifyOrder(ctx, conn, body.(*transport.ModifyOrderMessage))
	default:
		return fmt.Errorf("gateway: unsupported message kind %s", kind)
	}
}

func (g *Gateway) handleNewOrder(ctx context.Context, conn net.Conn, msg *transport.NewOrderMessage) error {
	symbol := transport.GetFixedString(msg.Symbol[:])
	clientID := transport.GetFixedString(msg.ClientID[:])

	ctx, span := otel.StartSpan(ctx, otel.SpanSubmitOrder,
		attribute.String(otel.AttributeOrderSymbol, symbol),
		attribute.Int64(otel.AttributeOrderPrice, msg.Price),
		attribute.Int64(otel.AttributeOrderQuantity, int64(msg.Quantity)),
	)
	defer span.End()

	done := g.engine.Submit(
		symbol,
		core.Side(msg.Side),
		core.OrderType(msg.OrderType),
		core.Price(msg.Price),
		core.Quantity(msg.Quantity),
		core.Price(msg.StopPrice),
		clientID,
	)

	otel.AddAttributes(span,
		attribute.Int64(otel.AttributeOrderID, int64(done.Order.ID())),
		attribute.String(otel.AttributeOrderStatus, done.Order.Status().String()),
		attribute.Int(otel.AttributeTradeCount, len(done.Trades)),
	)

	ack := transport.OrderAckMessage{
		ClientOrderID: msg.ClientOrderID,
		OrderID:       uint64(done.Order.ID()),
		Status:        uint8(done.Order.Status()),
	}
	transport.SetFixedString(ack.Message[:], statusMessage(done.Order.Status()))
	if err := transport.WriteMessage(conn, transport.KindOrderAck, wireNow(), &ack); err != nil {
		return fmt.Errorf("gateway: write order ack: %w", err)
	}

	for _, trade := range done.Trades {
		tradeID := g.tradeID.Add(1)
		report := messaging.FromTrade(done.Order, trade, tradeID)
		g.publish(ctx, report)

		exec := transport.ExecutionReportMessage{
			OrderID:           uint64(report.OrderID),
			Side:              uint8(report.Side),
			ExecutionPrice:    int64(report.ExecutionPrice),
			ExecutionQuantity: uint64(report.ExecutionQuantity),
			RemainingQuantity: uint64(report.RemainingQuantity),
			Status:            uint8(report.Status),
			TradeID:           report.TradeID,
		}
		transport.SetFixedString(exec.Symbol[:], report.Symbol)
		if err := transport.WriteMessage(conn, transport.KindExecutionReport, wireNow(), &exec); err != nil {
			return fmt.Errorf("gateway: write execution report: %w", err)
		}
	}

	return nil
}

func (g *Gateway) handleCancelOrder(ctx context.Context, conn net.Conn, msg *transport.CancelOrderMessage) error {
	_, span := otel.StartSpan(ctx, otel.SpanCancelOrder, attribute.Int64(otel.AttributeOrderID, int64(msg.OrderID)))
	defer span.End()

	order, ok := g.engine.Cancel(core.OrderID(msg.OrderID))

	ack := transport.OrderAckMessage{OrderID: msg.OrderID}
	if ok {
		ack.Status = uint8(order.Status())
		transport.SetFixedString(ack.Message[:], "order cancelled")
	} else {
		ack.Status = uint8(core.Rejected)
		transport.SetFixedString(ack.Message[:], "order not found")
	}

	if err := transport.WriteMessage(conn, transport.KindOrderAck, wireNow(), &ack); err != nil {
		return fmt.Errorf("gateway: write cancel ack: %w", err)
	}
	return nil
}

func (g *Gateway) handleModifyOrder(ctx context.Context, conn net.Conn, msg *transport.ModifyOrderMessage) error {
	_, span := otel.StartSpan(ctx, otel.SpanModifyOrder, attribute.Int64(otel.AttributeOrderID, int64(msg.OrderID)))
	defer span.End()

	order, ok := g.engine.Modify(core.OrderID(msg.OrderID), core.Price(msg.NewPrice), core.Quantity(msg.NewQuantity))

	ack := transport.OrderAckMessage{OrderID: msg.OrderID}
	if ok {
		ack.Status = uint8(order.Status())
		transport.SetFixedString(ack.Message[:], "order modified")
	} else {
		ack.Status = uint8(core.Rejected)
		transport.SetFixedString(ack.Message[:], "failed to modify order")
	}

	if err := transport.WriteMessage(conn, transport.KindOrderAck, wireNow(), &ack); err != nil {
		return fmt.Errorf("gateway: write modify ack: %w", err)
	}
	return nil
}

// publish hands report to the configured Sender, either inline or on its
// own goroutine depending on Config.PublishAsync. A failing publish is
// logged and never fails the client's own response, since the Sender is a
// redelivery aid, not the report's primary channel. With PublishAsync off,
// the publish runs before that trade's execution report is written, so a
// slow Sender delays the client's response.
func (g *Gateway) publish(ctx context.Context, report messaging.ExecutionReport) {
	if g.sender == nil {
		return
	}

	_, span := otel.StartSpan(ctx, otel.SpanPublishTrade,
		attribute.Int64(otel.AttributeOrderID, int64(report.OrderID)),
	)
	defer span.End()

	send := func() {
		start := time.Now()
		if err := g.sender.Send(report); err != nil {
			g.log.Warn().Err(err).Msg("execution report redelivery publish failed")
		}
		if elapsed := time.Since(start); elapsed > g.cfg.PublishTimeout {
			g.log.Warn().Dur("elapsed", elapsed).Msg("execution report publish exceeded timeout")
		}
	}

	if g.cfg.PublishAsync {
		go send()
	} else {
		send()
	}
}

func statusMessage(status core.OrderStatus) string {
	switch status {
	case core.Pending:
		return "order accepted"
	case core.Filled:
		return "order filled"
	case core.PartialFill:
		return "order partially filled"
	case core.Canceled:
		return "order canceled"
	case core.Rejected:
		return "order rejected"
	default:
		return "order accepted"
	}
}

func wireNow() uint64 { return uint64(time.Now().UnixNano()) }
