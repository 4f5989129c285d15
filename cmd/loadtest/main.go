// Command loadtest generates synthetic order flow against a matchcore
// server, grounded on the teacher's cmd/loadtest/main.go worker-pool and
// rate.Limiter pattern, retargeted from grpc calls to pkg/transport
// connections and instrumented with an HDR histogram instead of the
// teacher's plain min/max/avg accumulation.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
	"github.com/quantedge/matchcore/pkg/core"
	"github.com/quantedge/matchcore/pkg/transport"
	"golang.org/x/time/rate"
)

var symbols = []string{"BTCUSD", "ETHUSD", "SOLUSD"}

func main() {
	addr := flag.String("addr", "localhost:8888", "matchcore server address")
	numWorkers := flag.Int("workers", 50, "number of concurrent connections")
	ordersPerWorker := flag.Int("orders-per-worker", 200, "orders submitted by each worker")
	maxConcurrentReqs := flag.Int("max-concurrent", 100, "global request rate limit in requests/sec (also the burst size)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(*maxConcurrentReqs), *maxConcurrentReqs)

	var wg sync.WaitGroup
	var mu sync.Mutex
	hist := hdrhistogram.New(1, 10_000_000, 3) // nanoseconds, up to 10ms
	var submitted, failed int64

	start := time.Now()
	for w := 0; w < *numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			runWorker(ctx, workerID, *addr, *ordersPerWorker, limiter, hist, &mu, &submitted, &failed)
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	fmt.Printf("\nsubmitted=%d failed=%d elapsed=%s throughput=%.0f orders/sec\n",
		submitted, failed, elapsed, float64(submitted)/elapsed.Seconds())
	fmt.Printf("latency (us): p50=%d p90=%d p99=%d max=%d\n",
		hist.ValueAtQuantile(50)/1000, hist.ValueAtQuantile(90)/1000,
		hist.ValueAtQuantile(99)/1000, hist.Max()/1000)
}

func runWorker(ctx context.Context, workerID int, addr string, orders int, limiter *rate.Limiter, hist *hdrhistogram.Histogram, mu *sync.Mutex, submitted, failed *int64) {
	client, err := transport.Dial(addr)
	if err != nil {
		mu.Lock()
		*failed += int64(orders)
		mu.Unlock()
		return
	}
	defer client.Close()

	rng := rand.New(rand.NewSource(int64(workerID) + time.Now().UnixNano()))

	for i := 0; i < orders; i++ {
		if ctx.Err() != nil {
			return
		}
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		symbol, side, orderType, price, qty := randomOrder(rng)

		reqStart := time.Now()
		_, _, err := client.SubmitOrder(uint64(workerID)<<32|uint64(i), symbol, side, orderType, price, qty, 0, fmt.Sprintf("loadtest-%d", workerID))
		elapsed := time.Since(reqStart)

		mu.Lock()
		if err != nil {
			*failed++
		} else {
			*submitted++
			hist.RecordValue(elapsed.Nanoseconds())
		}
		mu.Unlock()
	}
}

func randomOrder(rng *rand.Rand) (string, core.Side, core.OrderType, core.Price, core.Quantity) {
	symbol := symbols[rng.Intn(len(symbols))]
	side := core.Buy
	if rng.Intn(2) == 0 {
		side = core.Sell
	}
	basePrice := core.Price(1_000_0000 + rng.Int63n(100_0000))
	qty := core.Quantity(1 + rng.Intn(100))
	return symbol, side, core.Limit, basePrice, qty
}
