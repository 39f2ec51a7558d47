package testutil

import (
	"bytes"
	"context"
	"io"
	"net"
	"testing"
)

// StartEchoTCPServer echoes every accepted connection back to its peer until
// the peer half-closes, then closes it. The listener is closed when the test
// ends.
func StartEchoTCPServer(t *testing.T, ctx context.Context) net.Listener {
	t.Helper()

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer c.Close()
				_, _ = io.Copy(c, c)
			}()
		}
	}()

	return ln
}

// AssertEcho writes msg to w and expects to read the same bytes from r.
func AssertEcho(t *testing.T, w io.Writer, r io.Reader, msg []byte) {
	t.Helper()

	if _, err := w.Write(msg); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, len(msg))
	if _, err := io.ReadFull(r, buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, msg) {
		t.Fatalf("expected %q got %q", msg, buf)
	}
}
