package proxy

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/die-net/socks5d/internal/resolver"
	"github.com/die-net/socks5d/internal/socks5"
)

func TestErrorKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&socks5.ProtocolError{Kind: socks5.UnsupportedVersion, Value: 4}, "protocol.unsupported_version"},
		{fmt.Errorf("wrapped: %w", &socks5.ProtocolError{Kind: socks5.NoAcceptableMethod}), "protocol.no_acceptable_method"},
		{&socks5.ProtocolError{Kind: socks5.UnknownAddressType, Value: 2}, "protocol.unknown_address_type"},
		{&socks5.TimeoutError{State: socks5.StateConnect}, "timeout.handshake"},
		{&resolver.ResolutionError{Name: "a.test", Kind: resolver.ErrNoAddressReturned}, "resolution.no_address"},
		{&resolver.ResolutionError{Name: "a.test", Kind: resolver.ErrLookupFailed, Err: errors.New("servfail")}, "resolution.lookup_failed"},
		{&socks5.ConnectError{Refused: true}, "connect.refused"},
		{&socks5.ConnectError{Err: errors.New("no route")}, "connect.failed"},
		{&RelayError{Direction: UpstreamToClient, Err: errors.New("reset")}, "relay.upstream_to_client"},
		{context.Canceled, "canceled"},
		{errors.New("mystery"), "other"},
	}

	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Errorf("ErrorKind(%v) = %q want %q", tt.err, got, tt.want)
		}
	}
}
