package logging

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	// RequestIDKey is the key used to store request IDs in context.
	RequestIDKey contextKey = "request_id"
)

// Config defines logging configuration.
type Config struct {
	// Level is the logging level (debug, info, warn, error).
	Level string
	// Pretty determines if logs should be formatted for human readability.
	Pretty bool
	// Output is where logs are written (defaults to os.Stdout).
	Output io.Writer
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Pretty: false,
		Output: os.Stdout,
	}
}

// Setup configures global logging based on the provided config.
func Setup(cfg Config) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// FromContext extracts a logger carrying the request id on ctx, if any.
func FromContext(ctx context.Context) zerolog.Logger {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return log.With().Str("request_id", requestID).Logger()
	}
	return log.Logger
}

// WithRequestID returns a child context carrying requestID, retrievable
// later via FromContext.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// ConnState describes the outcome of a logged TCP connection lifecycle.
type ConnState int

const (
	ConnAccepted ConnState = iota
	ConnClosed
)

// ConnMiddleware wraps a connection handler with accept/close logging
// (the close line carries the connection's duration), replacing the teacher's gRPC unary/stream interceptors: a raw
// TCP transport still has a request lifecycle worth logging, it just isn't
// shaped like an RPC call.
func ConnMiddleware(handle func(ctx context.Context, conn net.Conn)) func(conn net.Conn) {
	return func(conn net.Conn) {
		requestID := fmt.Sprintf("%d", time.Now().UnixNano())
		ctx := WithRequestID(context.Background(), requestID)
		logger := FromContext(ctx).With().Str("remote_addr", conn.RemoteAddr().String()).Logger()

		logger.Debug().Msg("connection accepted")
		start := time.Now()

		handle(ctx, conn)

		logger.Info().Dur("duration", time.Since(start)).Msg("connection closed")
	}
}

// LogCommand logs one decoded wire command's outcome at the appropriate
// level. Neither pkg/transport nor pkg/gateway calls it.
func LogCommand(ctx context.Context, command string, duration time.Duration, err error) {
	logger := FromContext(ctx).With().Str("command", command).Logger()
	event := logger.Info()
	if err != nil {
		event = logger.Error().Err(err)
	}
	event.Dur("duration", duration).Msg("command processed")
}
