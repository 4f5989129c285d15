// Command shell is an interactive REPL client for a matchcore server,
// grounded on the teacher's cmd/client/main.go: the same fatih/color plus
// text/tabwriter book rendering, adapted from a one-shot subcommand
// invocation into a persistent read-eval-print loop over pkg/transport.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/quantedge/matchcore/pkg/core"
	"github.com/quantedge/matchcore/pkg/transport"
	"github.com/rs/zerolog"
)

func main() {
	addr := flag.String("addr", "localhost:8888", "matchcore server address")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	client, err := transport.Dial(*addr)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect")
	}
	defer client.Close()

	fmt.Printf("connected to %s. type 'help' for commands.\n", *addr)

	var nextClientOrderID uint64
	scanner := bufio.NewScanner(os.Stdin)
	book := newBookView()

	for {
		fmt.Print("matchcore> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "help":
			printHelp()

		case "buy", "sell":
			if len(fields) < 4 {
				fmt.Println("usage: buy|sell SYMBOL PRICE QUANTITY")
				continue
			}
			side := core.Sell
			if fields[0] == "buy" {
				side = core.Buy
			}
			price := parsePrice(fields[2])
			qty, _ := strconv.ParseUint(fields[3], 10, 64)
			nextClientOrderID++

			ack, exec, err := client.SubmitOrder(nextClientOrderID, strings.ToUpper(fields[1]), side, core.Limit, price, core.Quantity(qty), 0, "shell")
			if err != nil {
				logger.Error().Err(err).Msg("submit failed")
				continue
			}
			printAck(ack)
			if exec != nil {
				printExec(exec)
				book.record(strings.ToUpper(fields[1]), *exec)
			}

		case "cancel":
			if len(fields) < 2 {
				fmt.Println("usage: cancel ORDER_ID")
				continue
			}
			id, _ := strconv.ParseUint(fields[1], 10, 64)
			ack, err := client.CancelOrder(id, "shell")
			if err != nil {
				logger.Error().Err(err).Msg("cancel failed")
				continue
			}
			printAck(ack)

		case "modify":
			if len(fields) < 4 {
				fmt.Println("usage: modify ORDER_ID NEW_PRICE NEW_QUANTITY")
				continue
			}
			id, _ := strconv.ParseUint(fields[1], 10, 64)
			price := parsePrice(fields[2])
			qty, _ := strconv.ParseUint(fields[3], 10, 64)
			ack, err := client.ModifyOrder(id, price, core.Quantity(qty), "shell")
			if err != nil {
				logger.Error().Err(err).Msg("modify failed")
				continue
			}
			printAck(ack)

		case "ping":
			latency, err := client.Heartbeat(1)
			if err != nil {
				logger.Error().Err(err).Msg("heartbeat failed")
				continue
			}
			fmt.Printf("pong in %s\n", latency)

		case "book":
			if len(fields) < 2 {
				fmt.Println("usage: book SYMBOL")
				continue
			}
			book.print(strings.ToUpper(fields[1]))

		case "quit", "exit":
			return

		default:
			fmt.Printf("unknown command %q, type 'help'\n", fields[0])
		}
	}
}

func printHelp() {
	fmt.Println(`commands:
  buy    SYMBOL PRICE QUANTITY
  sell   SYMBOL PRICE QUANTITY
  cancel ORDER_ID
  modify ORDER_ID NEW_PRICE NEW_QUANTITY
  book   SYMBOL
  ping
  quit`)
}

func parsePrice(s string) core.Price {
	f, _ := strconv.ParseFloat(s, 64)
	return core.Price(f * 10000)
}

func printAck(ack *transport.OrderAckMessage) {
	status := core.OrderStatus(ack.Status)
	fmt.Printf("ack: order=%d status=%s message=%q\n", ack.OrderID, status, transport.GetFixedString(ack.Message[:]))
}

func printExec(exec *transport.ExecutionReportMessage) {
	color.Yellow("  fill: %d @ %s (remaining %d)", exec.ExecutionQuantity, formatPrice(core.Price(exec.ExecutionPrice)), exec.RemainingQuantity)
}

func formatPrice(p core.Price) string {
	return fmt.Sprintf("%.4f", float64(p)/10000.0)
}

// bookView is a client-side best-effort depth cache built from execution
// reports, rendered the way the teacher's getOrderBookState prints a book:
// a colored bid/ask table over a tabwriter.
type bookView struct {
	bids, asks map[string][]transport.ExecutionReportMessage
}

func newBookView() *bookView {
	return &bookView{bids: map[string][]transport.ExecutionReportMessage{}, asks: map[string][]transport.ExecutionReportMessage{}}
}

func (b *bookView) record(symbol string, exec transport.ExecutionReportMessage) {
	if core.Side(exec.Side) == core.Buy {
		b.bids[symbol] = append(b.bids[symbol], exec)
	} else {
		b.asks[symbol] = append(b.asks[symbol], exec)
	}
}

func (b *bookView) print(symbol string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	color.New(color.FgCyan, color.Bold).Fprintf(w, "SIDE\tPRICE\tQUANTITY\n")

	for _, e := range b.asks[symbol] {
		color.New(color.FgRed).Fprintf(w, "ASK\t%s\t%d\n", formatPrice(core.Price(e.ExecutionPrice)), e.ExecutionQuantity)
	}
	for _, e := range b.bids[symbol] {
		color.New(color.FgGreen).Fprintf(w, "BID\t%s\t%d\n", formatPrice(core.Price(e.ExecutionPrice)), e.ExecutionQuantity)
	}
	w.Flush()
}
