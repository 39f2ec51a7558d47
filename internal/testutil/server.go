package testutil

import (
	"context"
	"net"
	"testing"
)

// StartSingleAcceptServer runs handler on the first connection accepted. The
// returned wait closes the listener and returns the handler's error, or nil
// if nothing connected.
func StartSingleAcceptServer(t *testing.T, ctx context.Context, handler func(net.Conn) error) (net.Listener, func() error) {
	t.Helper()

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	errc := make(chan error, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			errc <- nil
			return
		}
		defer c.Close()
		errc <- handler(c)
	}()

	wait := func() error {
		_ = ln.Close()
		return <-errc
	}
	t.Cleanup(func() { _ = ln.Close() })

	return ln, wait
}
