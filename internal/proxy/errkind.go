package proxy

import (
	"context"
	"errors"

	"github.com/die-net/socks5d/internal/resolver"
	"github.com/die-net/socks5d/internal/socks5"
)

var protocolKindLabels = map[socks5.ProtocolErrorKind]string{
	socks5.UnsupportedVersion: "protocol.unsupported_version",
	socks5.NoAcceptableMethod: "protocol.no_acceptable_method",
	socks5.UnsupportedCommand: "protocol.unsupported_command",
	socks5.UnknownAddressType: "protocol.unknown_address_type",
	socks5.InvalidHostname:    "protocol.invalid_hostname",
	socks5.UnexpectedEOF:      "protocol.unexpected_eof",
	socks5.WriteFailed:        "protocol.write_failed",
}

// ErrorKind returns a stable label for a session error, for logs and
// metrics. It returns "" for a nil error.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var (
		pe  *socks5.ProtocolError
		ce  *socks5.ConnectError
		rse *resolver.ResolutionError
		re  *RelayError
	)
	switch {
	case errors.Is(err, socks5.ErrHandshakeTimeout):
		return "timeout.handshake"
	case errors.As(err, &pe):
		if l, ok := protocolKindLabels[pe.Kind]; ok {
			return l
		}
		return "protocol.other"
	case errors.As(err, &rse):
		if errors.Is(rse, resolver.ErrNoAddressReturned) {
			return "resolution.no_address"
		}
		return "resolution.lookup_failed"
	case errors.As(err, &ce):
		if ce.Refused {
			return "connect.refused"
		}
		return "connect.failed"
	case errors.As(err, &re):
		if re.Direction == ClientToUpstream {
			return "relay.client_to_upstream"
		}
		return "relay.upstream_to_client"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "other"
	}
}
