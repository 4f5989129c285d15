// Package redis provides a read-through market-data mirror around a
// core.OrderBookBackend. It is never the book's source of truth: every
// matching decision is still made against the wrapped backend (normally
// pkg/backend/memory), and a Redis outage degrades market-data queries
// without losing or corrupting any resting order. Grounded on the
// teacher's pkg/backend/redis/redis_backend.go, reworked from a
// standalone backend implementation into a decorator and from zap to
// zerolog per this repository's logging stack.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quantedge/matchcore/pkg/core"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Options configures the Redis connection used by a Mirror.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient builds a go-redis client from Options.
func NewClient(opts Options) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

// snapshot is the JSON document written to Redis for a symbol's market data.
type snapshot struct {
	BestBid    core.Price    `json:"best_bid,omitempty"`
	HasBid     bool          `json:"has_bid"`
	BestAsk    core.Price    `json:"best_ask,omitempty"`
	HasAsk     bool          `json:"has_ask"`
	BidDepth   []levelJSON   `json:"bid_depth"`
	AskDepth   []levelJSON   `json:"ask_depth"`
}

type levelJSON struct {
	Price    core.Price    `json:"price"`
	Quantity core.Quantity `json:"quantity"`
}

const mirrorDepth = 10

// Mirror wraps a core.OrderBookBackend and republishes a market-data
// snapshot to Redis after every mutating call, so read-heavy consumers
// (a market-data API, a dashboard) can be served without contending on the
// book's own mutex.
type Mirror struct {
	inner  core.OrderBookBackend
	client *redis.Client
	symbol string
	key    string
	log    zerolog.Logger
	ctx    context.Context
}

// NewMirror wraps inner for symbol, publishing snapshots under
// "book:{symbol}" in Redis.
func NewMirror(inner core.OrderBookBackend, client *redis.Client, symbol string, log zerolog.Logger) *Mirror {
	return &Mirror{
		inner:  inner,
		client: client,
		symbol: symbol,
		key:    fmt.Sprintf("book:%s", symbol),
		log:    log,
		ctx:    context.Background(),
	}
}

// NewMirrorFactory adapts NewMirror to core.BackendFactory: each symbol's
// book gets its own in-memory backend wrapped in a Mirror sharing one
// Redis client.
func NewMirrorFactory(client *redis.Client, newInner core.BackendFactory, log zerolog.Logger) core.BackendFactory {
	return func(symbol string) core.OrderBookBackend {
		return NewMirror(newInner(symbol), client, symbol, log)
	}
}

func (m *Mirror) GetOrder(id core.OrderID) (*core.Order, bool) { return m.inner.GetOrder(id) }

func (m *Mirror) AddOrder(o *core.Order) {
	m.inner.AddOrder(o)
	m.publish()
}

func (m *Mirror) RemoveOrder(id core.OrderID) (*core.Order, bool) {
	o, ok := m.inner.RemoveOrder(id)
	if ok {
		m.publish()
	}
	return o, ok
}

func (m *Mirror) Levels(side core.Side) []*core.PriceLevel { return m.inner.Levels(side) }

func (m *Mirror) LevelAt(side core.Side, price core.Price) (*core.PriceLevel, bool) {
	return m.inner.LevelAt(side, price)
}

func (m *Mirror) BestPrice(side core.Side) (core.Price, bool) { return m.inner.BestPrice(side) }

func (m *Mirror) CheckOCO(id core.OrderID) (core.OrderID, bool) { return m.inner.CheckOCO(id) }

func (m *Mirror) OrderCount() int { return m.inner.OrderCount() }

// publish writes the current top-of-book snapshot to Redis. Failures are
// logged, never returned: a stale or missing mirror cannot corrupt the
// book, only degrade a market-data read.
func (m *Mirror) publish() {
	snap := snapshot{}
	if bid, ok := m.inner.BestPrice(core.Buy); ok {
		snap.HasBid = true
		snap.BestBid = bid
	}
	if ask, ok := m.inner.BestPrice(core.Sell); ok {
		snap.HasAsk = true
		snap.BestAsk = ask
	}
	snap.BidDepth = depthJSON(m.inner.Levels(core.Buy))
	snap.AskDepth = depthJSON(m.inner.Levels(core.Sell))

	data, err := json.Marshal(snap)
	if err != nil {
		m.log.Error().Err(err).Str("symbol", m.symbol).Msg("marshal market data snapshot")
		return
	}

	if err := m.client.Set(m.ctx, m.key, data, 0).Err(); err != nil {
		m.log.Warn().Err(err).Str("symbol", m.symbol).Msg("publish market data snapshot")
	}
}

func depthJSON(levels []*core.PriceLevel) []levelJSON {
	n := len(levels)
	if n > mirrorDepth {
		n = mirrorDepth
	}
	out := make([]levelJSON, n)
	for i := 0; i < n; i++ {
		out[i] = levelJSON{Price: levels[i].Price(), Quantity: levels[i].TotalQuantity()}
	}
	return out
}

// Snapshot fetches the last published market-data snapshot for symbol
// directly from Redis, bypassing the wrapped backend entirely. Used by
// read-only consumers that don't hold a reference to the live Engine.
func Snapshot(ctx context.Context, client *redis.Client, symbol string) (bestBid, bestAsk core.Price, hasBid, hasAsk bool, err error) {
	data, getErr := client.Get(ctx, fmt.Sprintf("book:%s", symbol)).Bytes()
	if getErr != nil {
		return 0, 0, false, false, getErr
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return 0, 0, false, false, err
	}
	return snap.BestBid, snap.BestAsk, snap.HasBid, snap.HasAsk, nil
}
