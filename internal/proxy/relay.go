package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Direction is one half of a relayed session.
type Direction uint8

const (
	ClientToUpstream Direction = iota
	UpstreamToClient
)

func (d Direction) String() string {
	if d == ClientToUpstream {
		return "client to upstream"
	}
	return "upstream to client"
}

// Transfer counts the bytes relayed in each direction of a session.
type Transfer struct {
	ClientToUpstream uint64
	UpstreamToClient uint64
}

// RelayError reports an I/O failure in one direction of a relay. Transfer
// holds the bytes moved in both directions before the relay stopped.
type RelayError struct {
	Direction Direction
	Transfer  Transfer
	Err       error
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("relay %s: %v", e.Direction, e.Err)
}

func (e *RelayError) Unwrap() error { return e.Err }

// Relay copies downstream to upstream and upstream to downstream until both
// directions reach EOF. When one direction finishes, the write side of its
// destination is shut down and the other direction keeps running. An error in
// either direction, or the end of ctx, closes both connections; the latter is
// reported as ctx.Err(). Relay always closes both connections before
// returning.
func Relay(ctx context.Context, downstream, upstream net.Conn) (Transfer, error) {
	g, gctx := errgroup.WithContext(ctx)

	var closeOnce sync.Once
	closeBoth := func() {
		closeOnce.Do(func() {
			_ = downstream.Close()
			_ = upstream.Close()
		})
	}
	defer closeBoth()

	var t Transfer

	g.Go(func() error {
		n, err := halfCopy(upstream, downstream)
		t.ClientToUpstream = uint64(n)
		if err != nil {
			return &RelayError{Direction: ClientToUpstream, Err: err}
		}
		return nil
	})

	g.Go(func() error {
		n, err := halfCopy(downstream, upstream)
		t.UpstreamToClient = uint64(n)
		if err != nil {
			return &RelayError{Direction: UpstreamToClient, Err: err}
		}
		return nil
	})

	// On the first error, or when ctx ends, close both sides to unblock the
	// other copy.
	stop := context.AfterFunc(gctx, closeBoth)
	defer stop()

	err := g.Wait()
	if err != nil && ctx.Err() != nil {
		// Torn down by ctx, not by an I/O failure.
		return t, ctx.Err()
	}
	var re *RelayError
	if errors.As(err, &re) {
		re.Transfer = t
	}
	return t, err
}

type closeWriter interface {
	CloseWrite() error
}

// halfCopy copies src to dst until EOF, then shuts down the write side of dst.
func halfCopy(dst, src net.Conn) (int64, error) {
	bp := relayBuffers.Get()
	defer relayBuffers.Put(bp)

	n, err := io.CopyBuffer(dst, src, *bp)
	if err != nil {
		return n, err
	}
	if cw, ok := dst.(closeWriter); ok {
		_ = cw.CloseWrite()
	}
	return n, nil
}
