// Command server runs the matchcore TCP matching engine, grounded on the
// teacher's cmd/server/main.go and original_source's main_server.cpp
// wiring order: load config, set up logging and tracing, construct the
// engine and its optional decorators, then serve until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/quantedge/matchcore/config"
	"github.com/quantedge/matchcore/pkg/backend/memory"
	redisbackend "github.com/quantedge/matchcore/pkg/backend/redis"
	"github.com/quantedge/matchcore/pkg/core"
	"github.com/quantedge/matchcore/pkg/gateway"
	"github.com/quantedge/matchcore/pkg/logging"
	"github.com/quantedge/matchcore/pkg/messaging"
	"github.com/quantedge/matchcore/pkg/messaging/kafka"
	"github.com/quantedge/matchcore/pkg/otel"
	"github.com/quantedge/matchcore/pkg/transport"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.Config{
		Level:  cfg.Server.LogLevel,
		Pretty: cfg.Server.LogFormat == "pretty",
		Output: os.Stdout,
	})

	shutdownTracing, err := otel.Init(otel.Config{ServiceName: otel.ServiceMatchingEngine, Pretty: cfg.Server.LogFormat == "pretty"})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}
	defer shutdownTracing()

	newBackend := memory.NewFactory()
	if cfg.Redis.Enabled {
		client := redisbackend.NewClient(redisbackend.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		newBackend = redisbackend.NewMirrorFactory(client, newBackend, log.Logger)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("market data mirrored to redis")
	}

	engine := core.NewEngine(newBackend)
	engine.OnOrder(func(o *core.Order) {
		log.Debug().Uint64("order_id", uint64(o.ID())).Str("status", o.Status().String()).Msg("order update")
	})
	engine.OnTrade(func(t core.Trade) {
		log.Debug().Str("symbol", t.Symbol).Int64("price", int64(t.Price)).Uint64("quantity", uint64(t.Quantity)).Msg("trade executed")
	})

	var sender messaging.Sender = messaging.NewMockSender()
	if cfg.Kafka.Enabled {
		kafkaSender, err := kafka.NewSender(strings.Split(cfg.Kafka.BrokerAddr, ","), cfg.Kafka.Topic)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to kafka")
		}
		sender = kafkaSender
		defer sender.Close()
		log.Info().Str("brokers", cfg.Kafka.BrokerAddr).Str("topic", cfg.Kafka.Topic).Msg("execution reports published to kafka")
	}

	gw := gateway.New(engine, sender, log.Logger)
	server := transport.NewServer(cfg.Server.ListenAddr, gw, log.Logger, rate.Limit(1000), 100)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := server.ListenAndServe(ctx); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
