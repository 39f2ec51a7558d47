package dialer

import (
	"context"
	"net"
)

type directDialer struct {
	cfg Config
}

func NewDirectDialer(cfg Config) Dialer {
	return &directDialer{cfg: cfg}
}

// DialContext returns the net.Dialer error unwrapped so callers can match
// syscall errors such as ECONNREFUSED.
func (d *directDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	nd := net.Dialer{Timeout: d.cfg.DialTimeout, KeepAliveConfig: d.cfg.KeepAlive}
	if !d.cfg.KeepAlive.Enable {
		nd.KeepAlive = -1
	}
	return nd.DialContext(ctx, network, address)
}
