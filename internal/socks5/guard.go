package socks5

import (
	"context"
	"errors"
	"net"
	"time"
)

// DefaultHandshakeTimeout bounds a handshake when Handshaker.Timeout is zero.
const DefaultHandshakeTimeout = 10 * time.Second

// aLongTimeAgo is a deadline in the past, used to unblock pending I/O.
var aLongTimeAgo = time.Unix(1, 0)

// Handshaker runs server handshakes.
type Handshaker struct {
	Resolver Resolver
	Dialer   Dialer
	Timeout  time.Duration
}

// Handshake negotiates a CONNECT request on conn and opens the upstream
// connection, all within h.Timeout.
//
// On success the caller owns both connections in the returned Session. On
// failure conn is left for the caller to close and any upstream connection
// opened during the handshake has already been closed. If the deadline fires
// first, the error is a *TimeoutError and nothing more is written to conn.
func (h *Handshaker) Handshake(ctx context.Context, conn net.Conn) (*Session, error) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultHandshakeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Lookups and dials watch ctx directly; reads and writes on conn are
	// unblocked by moving its deadline into the past.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(aLongTimeAgo)
	})

	hs := &handshake{conn: conn, resolver: h.Resolver, dialer: h.Dialer}
	sess, err := hs.run(ctx)

	if !stop() {
		if sess != nil {
			_ = sess.Upstream.Close()
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{State: hs.state}
		}
		return nil, ctx.Err()
	}

	return sess, err
}
