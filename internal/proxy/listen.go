package proxy

import (
	"context"
	"fmt"
	"net"
)

// ListenTCP listens on the given network/address. Accepted TCP connections
// get keepAliveConfig applied; a disabled config leaves keepalive off.
func ListenTCP(ctx context.Context, network, addr string, keepAliveConfig net.KeepAliveConfig) (net.Listener, error) {
	lc := net.ListenConfig{KeepAliveConfig: keepAliveConfig}
	if !keepAliveConfig.Enable {
		// A zero KeepAlive would fall back to the system default and enable it.
		lc.KeepAlive = -1
	}

	ln, err := lc.Listen(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s %s: %w", network, addr, err)
	}

	return ln, nil
}
