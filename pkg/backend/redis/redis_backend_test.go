package redis

import (
	"context"
	"testing"

	"github.com/quantedge/matchcore/pkg/backend/memory"
	"github.com/quantedge/matchcore/pkg/core"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis connects to a local Redis instance for testing, skipping
// the test entirely if one isn't reachable. Assumes Redis on
// localhost:6379, matching the teacher's redis_backend_test.go.
func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 0})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		t.Skipf("skipping redis tests: cannot connect to redis (%v)", err)
	}
	require.NoError(t, client.FlushDB(context.Background()).Err())
	return client
}

func TestMirror_DelegatesOrderOperations(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	mirror := NewMirror(memory.New(), client, "BTCUSD", zerolog.Nop())

	order := core.NewOrder(1, "BTCUSD", core.Buy, core.Limit, 1000000, 10, 0, "")
	mirror.AddOrder(order)

	got, ok := mirror.GetOrder(1)
	require.True(t, ok)
	assert.Equal(t, order, got)

	removed, ok := mirror.RemoveOrder(1)
	require.True(t, ok)
	assert.Equal(t, order, removed)
}

func TestMirror_PublishesSnapshotToRedis(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	mirror := NewMirror(memory.New(), client, "BTCUSD", zerolog.Nop())
	mirror.AddOrder(core.NewOrder(1, "BTCUSD", core.Buy, core.Limit, 1000000, 10, 0, ""))
	mirror.AddOrder(core.NewOrder(2, "BTCUSD", core.Sell, core.Limit, 1010000, 5, 0, ""))

	bid, ask, hasBid, hasAsk, err := Snapshot(context.Background(), client, "BTCUSD")
	require.NoError(t, err)
	assert.True(t, hasBid)
	assert.True(t, hasAsk)
	assert.Equal(t, core.Price(1000000), bid)
	assert.Equal(t, core.Price(1010000), ask)
}

func TestMirror_SnapshotMissingReturnsError(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	_, _, _, _, err := Snapshot(context.Background(), client, "NOSUCHSYMBOL")
	assert.Error(t, err)
}

func TestMirror_BestPriceTracksAfterRemoval(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	mirror := NewMirror(memory.New(), client, "ETHUSD", zerolog.Nop())
	mirror.AddOrder(core.NewOrder(1, "ETHUSD", core.Buy, core.Limit, 500000, 10, 0, ""))
	mirror.RemoveOrder(1)

	_, hasBid := mirror.BestPrice(core.Buy)
	assert.False(t, hasBid)

	bid, ask, hasBid2, hasAsk2, err2 := Snapshot(context.Background(), client, "ETHUSD")
	require.NoError(t, err2)
	assert.False(t, hasBid2)
	assert.False(t, hasAsk2)
	assert.Equal(t, core.Price(0), bid)
	assert.Equal(t, core.Price(0), ask)
}
