package proxy

import (
	"time"

	"github.com/die-net/socks5d/internal/dialer"
	"github.com/die-net/socks5d/internal/socks5"
)

type Config struct {
	HandshakeTimeout time.Duration

	Dialer   dialer.Dialer
	Resolver socks5.Resolver

	// Observer is optional.
	Observer Observer
}
