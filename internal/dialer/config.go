package dialer

import (
	"net"
	"time"
)

// Config applies to every outbound connection, direct or through an
// upstream proxy.
type Config struct {
	// DialTimeout bounds the TCP connect on its own. The caller's context
	// may end it sooner.
	DialTimeout time.Duration
	KeepAlive   net.KeepAliveConfig
}
