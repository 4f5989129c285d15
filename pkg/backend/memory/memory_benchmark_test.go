package memory

import (
	"testing"

	"github.com/quantedge/matchcore/pkg/core"
)

func BenchmarkBackend_AddOrder(b *testing.B) {
	backend := New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		order := core.NewOrder(core.OrderID(i+1), "BTCUSD", core.Buy, core.Limit, core.Price(1000000+(i%100)), core.Quantity(10), 0, "")
		backend.AddOrder(order)
	}
}

func BenchmarkBackend_GetOrder(b *testing.B) {
	backend := New()

	const numOrders = 1000
	for i := 0; i < numOrders; i++ {
		order := core.NewOrder(core.OrderID(i+1), "BTCUSD", core.Buy, core.Limit, core.Price(1000000), core.Quantity(10), 0, "")
		backend.AddOrder(order)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := core.OrderID((i % numOrders) + 1)
		backend.GetOrder(id)
	}
}

func BenchmarkBackend_RemoveOrder(b *testing.B) {
	backend := New()

	const numOrders = 100
	orders := make([]*core.Order, numOrders)
	for i := 0; i < numOrders; i++ {
		order := core.NewOrder(core.OrderID(i+1), "BTCUSD", core.Buy, core.Limit, core.Price(1000000+int64(i%100)), core.Quantity(10), 0, "")
		backend.AddOrder(order)
		orders[i] = order
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%numOrders == 0 && i > 0 {
			b.StopTimer()
			for _, o := range orders {
				backend.AddOrder(o)
			}
			b.StartTimer()
		}
		backend.RemoveOrder(orders[i%numOrders].ID())
	}
}

func BenchmarkOrderBook_Match_Memory(b *testing.B) {
	backend := New()
	book := core.NewOrderBook("BTCUSD", backend)

	for i := 0; i < 100; i++ {
		order := core.NewOrder(core.OrderID(i+1), "BTCUSD", core.Sell, core.Limit, core.Price(1000000+int64(i)), core.Quantity(10), 0, "")
		book.Match(order)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		order := core.NewOrder(core.OrderID(100000+i), "BTCUSD", core.Buy, core.Limit, core.Price(1000000), core.Quantity(1), 0, "")
		book.Match(order)
	}
}

func BenchmarkOrderBook_LargeBook_Memory(b *testing.B) {
	backend := New()
	book := core.NewOrderBook("BTCUSD", backend)

	id := core.OrderID(1)
	for i := 0; i < 200; i++ {
		buyPrice := core.Price(900000 - int64(i%90))
		book.Match(core.NewOrder(id, "BTCUSD", core.Buy, core.Limit, buyPrice, core.Quantity(10), 0, ""))
		id++

		sellPrice := core.Price(1100000 + int64(i%90))
		book.Match(core.NewOrder(id, "BTCUSD", core.Sell, core.Limit, sellPrice, core.Quantity(10), 0, ""))
		id++
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		side := core.Buy
		if i%2 == 0 {
			side = core.Sell
		}
		book.Match(core.NewOrder(id, "BTCUSD", side, core.Market, 0, core.Quantity(5), 0, ""))
		id++
	}
}
