//go:build unix

package proxy

import (
	"context"
	"net"
	"testing"

	"github.com/die-net/socks5d/internal/config"
	"github.com/die-net/socks5d/internal/testutil"
)

func TestListenTCPKeepAlive(t *testing.T) {
	tests := []struct {
		spec string
		want bool
	}{
		{spec: "off", want: false},
		{spec: "on", want: true},
		{spec: "45:45:3", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			ka, err := config.ParseTCPKeepAlive(tt.spec)
			if err != nil {
				t.Fatal(err)
			}

			ln, err := ListenTCP(context.Background(), "tcp", "127.0.0.1:0", ka)
			if err != nil {
				t.Fatal(err)
			}
			defer ln.Close()

			client, err := net.Dial("tcp", ln.Addr().String())
			if err != nil {
				t.Fatal(err)
			}
			defer client.Close()

			c, err := ln.Accept()
			if err != nil {
				t.Fatal(err)
			}
			defer c.Close()

			if got := testutil.KeepAliveEnabled(t, c); got != tt.want {
				t.Fatalf("accepted SO_KEEPALIVE=%v want %v", got, tt.want)
			}
		})
	}
}
