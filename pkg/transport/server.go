package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/quantedge/matchcore/pkg/logging"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Handler processes one decoded message from a connection and writes
// whatever response frames that message calls for directly to conn. It is
// implemented by pkg/gateway, which owns the translation to and from
// core.Engine.
type Handler interface {
	Handle(ctx context.Context, conn net.Conn, kind MessageKind, body any) error
}

// Server is the TCP front door, grounded on original_source's
// Server::acceptClients/handleClient loop: accept, spawn a handler
// goroutine per connection, read frames until the connection closes.
// Unlike the original's unbounded per-client thread, each connection's
// message rate is capped by a token bucket so one slow or abusive client
// cannot starve the others.
type Server struct {
	addr         string
	handler      Handler
	log          zerolog.Logger
	connRate     rate.Limit
	connBurst    int
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewServer builds a Server. connRate/connBurst bound how many messages
// per second a single connection may submit.
func NewServer(addr string, handler Handler, log zerolog.Logger, connRate rate.Limit, connBurst int) *Server {
	return &Server{
		addr:         addr,
		handler:      handler,
		log:          log,
		connRate:     connRate,
		connBurst:    connBurst,
		readTimeout:  30 * time.Second,
		writeTimeout: 5 * time.Second,
	}
}

// ListenAndServe accepts connections until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	s.log.Info().Str("addr", s.addr).Msg("transport server listening")

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.log.Error().Err(err).Msg("accept failed")
			continue
		}
		go s.serve(ctx, conn)
	}
}

func (s *Server) serve(ctx context.Context, conn net.Conn) {
	limiter := rate.NewLimiter(s.connRate, s.connBurst)
	handle := func(ctx context.Context, c net.Conn) {
		for {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			c.SetReadDeadline(time.Now().Add(s.readTimeout))

			kind, body, err := ReadMessage(c)
			if err != nil {
				if !errors.Is(err, io.EOF) && ctx.Err() == nil {
					s.log.Debug().Err(err).Msg("read failed, closing connection")
				}
				return
			}

			if kind == KindHeartbeat {
				hb := body.(*HeartbeatMessage)
				c.SetWriteDeadline(time.Now().Add(s.writeTimeout))
				if err := WriteMessage(c, KindHeartbeat, uint64(time.Now().UnixNano()), hb); err != nil {
					s.log.Debug().Err(err).Msg("heartbeat echo failed")
					return
				}
				continue
			}

			c.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := s.handler.Handle(ctx, c, kind, body); err != nil {
				s.log.Error().Err(err).Str("kind", kind.String()).Msg("handler failed")
			}
		}
	}

	logging.ConnMiddleware(handle)(conn)
}
