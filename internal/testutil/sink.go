package testutil

import (
	"context"
	"io"
	"net"
	"testing"
)

// StartSinkTCPServer accepts one connection and reads it until EOF. It then
// writes trailer, closes the connection and sends the number of bytes read
// on the returned channel.
func StartSinkTCPServer(t *testing.T, ctx context.Context, trailer []byte) (net.Listener, <-chan int64) {
	t.Helper()

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	got := make(chan int64, 1)
	go func() {
		defer close(got)

		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()

		n, _ := io.Copy(io.Discard, c)
		if len(trailer) > 0 {
			_, _ = c.Write(trailer)
		}
		got <- n
	}()

	return ln, got
}
