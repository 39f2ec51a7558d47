package dialer

import (
	"context"
	"fmt"
	"net"

	"github.com/die-net/socks5d/internal/socks5"
)

// SOCKS5ProxyDialer connects through an upstream no-auth SOCKS5 proxy.
type SOCKS5ProxyDialer struct {
	direct    Dialer
	proxyAddr string
}

func NewSOCKS5ProxyDialer(cfg Config, proxyAddr string) *SOCKS5ProxyDialer {
	return &SOCKS5ProxyDialer{direct: NewDirectDialer(cfg), proxyAddr: proxyAddr}
}

func (d *SOCKS5ProxyDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if network != "tcp" {
		return nil, fmt.Errorf("socks5 proxy dial %s %s: unsupported network", network, address)
	}

	c, err := d.direct.DialContext(ctx, network, d.proxyAddr)
	if err != nil {
		// Not wrapped: a refused proxy must not read as a refused destination.
		return nil, fmt.Errorf("socks5 proxy %s: %v", d.proxyAddr, err)
	}

	// Abort the negotiation if ctx ends first.
	stop := context.AfterFunc(ctx, func() {
		_ = c.Close()
	})
	err = socks5.ClientDial(c, address)
	if !stop() {
		_ = c.Close()
		return nil, ctx.Err()
	}
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("socks5 proxy dial %s %s: %w", network, address, err)
	}
	return c, nil
}
