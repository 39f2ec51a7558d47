package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/die-net/socks5d/internal/socks5"
)

// Observer receives the outcome of every session. Implementations must be
// safe for concurrent use.
type Observer interface {
	SessionStarted()
	HandshakeDone(d time.Duration, errKind string)
	SessionDone(bytesIn, bytesOut uint64, errKind string)
}

type nopObserver struct{}

func (nopObserver) SessionStarted()                     {}
func (nopObserver) HandshakeDone(time.Duration, string) {}
func (nopObserver) SessionDone(uint64, uint64, string)  {}

// SOCKS5Server accepts SOCKS5 clients and relays each one to its requested
// destination on its own goroutine.
type SOCKS5Server struct {
	ctx      context.Context
	hs       *socks5.Handshaker
	log      *zap.Logger
	observer Observer
	verbose  bool

	wg sync.WaitGroup
}

// NewSOCKS5Server returns a server whose sessions are canceled when ctx
// ends. Failed sessions are logged at debug level, or info when verbose.
func NewSOCKS5Server(ctx context.Context, cfg Config, log *zap.Logger, verbose bool) *SOCKS5Server {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = zap.NewNop()
	}
	obs := cfg.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	return &SOCKS5Server{
		ctx: ctx,
		hs: &socks5.Handshaker{
			Resolver: cfg.Resolver,
			Dialer:   cfg.Dialer,
			Timeout:  cfg.HandshakeTimeout,
		},
		log:      log,
		observer: obs,
		verbose:  verbose,
	}
}

// Serve accepts connections on ln until it is closed. It returns nil if the
// server context has ended, after waiting for in-flight sessions.
func (s *SOCKS5Server) Serve(ln net.Listener) error {
	defer s.wg.Wait()

	for {
		c, err := ln.Accept()
		if err != nil {
			if s.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.wg.Go(func() {
			s.handle(c)
		})
	}
}

func (s *SOCKS5Server) handle(conn net.Conn) {
	start := time.Now()
	peer := conn.RemoteAddr()
	s.observer.SessionStarted()

	sess, err := s.hs.Handshake(s.ctx, conn)
	s.observer.HandshakeDone(time.Since(start), ErrorKind(err))
	if err != nil {
		_ = conn.Close()
		s.failed(peer, err, Transfer{})
		return
	}

	t, err := Relay(s.ctx, sess.Downstream, sess.Upstream)
	if err != nil {
		s.failed(peer, err, t)
		return
	}

	s.log.Info("proxied",
		zap.Stringer("peer", peer),
		zap.Stringer("dest", sess.Destination),
		zap.Stringer("target", sess.Target),
		zap.Uint64("bytes_in", t.ClientToUpstream),
		zap.Uint64("bytes_out", t.UpstreamToClient),
		zap.Duration("duration", time.Since(start)),
	)
	s.observer.SessionDone(t.ClientToUpstream, t.UpstreamToClient, "")
}

func (s *SOCKS5Server) failed(peer net.Addr, err error, t Transfer) {
	kind := ErrorKind(err)
	s.observer.SessionDone(t.ClientToUpstream, t.UpstreamToClient, kind)

	lvl := zapcore.DebugLevel
	if s.verbose {
		lvl = zapcore.InfoLevel
	}
	if ce := s.log.Check(lvl, "session failed"); ce != nil {
		ce.Write(
			zap.Stringer("peer", peer),
			zap.String("kind", kind),
			zap.Uint64("bytes_in", t.ClientToUpstream),
			zap.Uint64("bytes_out", t.UpstreamToClient),
			zap.Error(err),
		)
	}
}
