package transport_test

import (
	"bytes"
	"testing"

	"github.com/quantedge/matchcore/pkg/transport"
	"github.com/stretchr/testify/require"
)

func TestWriteReadMessage_RoundTrip(t *testing.T) {
	var buf bytes.Buffer

	msg := transport.NewOrderMessage{
		ClientOrderID: 42,
		Side:          1,
		OrderType:     0,
		Price:         123450000,
		Quantity:      7,
		StopPrice:     0,
	}
	transport.SetFixedString(msg.Symbol[:], "ETHUSD")
	transport.SetFixedString(msg.ClientID[:], "trader-1")

	require.NoError(t, transport.WriteMessage(&buf, transport.KindNewOrder, 1000, &msg))

	kind, body, err := transport.ReadMessage(&buf)
	require.NoError(t, err)
	require.Equal(t, transport.KindNewOrder, kind)

	got := body.(*transport.NewOrderMessage)
	require.Equal(t, msg.ClientOrderID, got.ClientOrderID)
	require.Equal(t, msg.Price, got.Price)
	require.Equal(t, "ETHUSD", transport.GetFixedString(got.Symbol[:]))
	require.Equal(t, "trader-1", transport.GetFixedString(got.ClientID[:]))
}

func TestWriteReadMessage_Heartbeat(t *testing.T) {
	var buf bytes.Buffer
	hb := transport.HeartbeatMessage{SequenceNumber: 5}
	require.NoError(t, transport.WriteMessage(&buf, transport.KindHeartbeat, 0, &hb))

	kind, body, err := transport.ReadMessage(&buf)
	require.NoError(t, err)
	require.Equal(t, transport.KindHeartbeat, kind)
	require.Equal(t, uint64(5), body.(*transport.HeartbeatMessage).SequenceNumber)
}

func TestGetFixedString_TruncatesAtNUL(t *testing.T) {
	var arr [8]byte
	transport.SetFixedString(arr[:], "hi")
	require.Equal(t, "hi", transport.GetFixedString(arr[:]))
}

func TestSetFixedString_TruncatesOverlong(t *testing.T) {
	var arr [4]byte
	transport.SetFixedString(arr[:], "toolong")
	require.Equal(t, "tool", transport.GetFixedString(arr[:]))
}
