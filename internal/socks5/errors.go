package socks5

import (
	"errors"
	"fmt"
	"net/netip"
)

// ProtocolErrorKind classifies malformed or unsupported handshake input.
type ProtocolErrorKind uint8

const (
	UnsupportedVersion ProtocolErrorKind = iota + 1
	NoAcceptableMethod
	UnsupportedCommand
	UnknownAddressType
	InvalidHostname
	UnexpectedEOF
	WriteFailed
)

func (k ProtocolErrorKind) String() string {
	switch k {
	case UnsupportedVersion:
		return "unsupported version"
	case NoAcceptableMethod:
		return "no acceptable method"
	case UnsupportedCommand:
		return "unsupported command"
	case UnknownAddressType:
		return "unknown address type"
	case InvalidHostname:
		return "invalid hostname"
	case UnexpectedEOF:
		return "unexpected end of stream"
	case WriteFailed:
		return "write failed"
	default:
		return fmt.Sprintf("protocol error %d", uint8(k))
	}
}

// ProtocolError reports a handshake aborted because of client input or a
// failed read/write on the downstream connection. No reply is sent.
type ProtocolError struct {
	Kind ProtocolErrorKind
	// Value is the offending byte for UnsupportedVersion, UnsupportedCommand
	// and UnknownAddressType.
	Value byte
	Err   error
}

func (e *ProtocolError) Error() string {
	switch e.Kind {
	case UnsupportedVersion, UnsupportedCommand, UnknownAddressType:
		return fmt.Sprintf("socks5: %s: %#x", e.Kind, e.Value)
	}
	if e.Err != nil {
		return fmt.Sprintf("socks5: %s: %v", e.Kind, e.Err)
	}
	return "socks5: " + e.Kind.String()
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// Is matches another *ProtocolError with the same Kind, so callers can write
// errors.Is(err, &ProtocolError{Kind: NoAcceptableMethod}).
func (e *ProtocolError) Is(target error) bool {
	t, ok := target.(*ProtocolError)
	return ok && t.Kind == e.Kind
}

// ConnectError reports a failed outbound connect. The client has already been
// sent a reply carrying the matching REP code when this error is returned.
type ConnectError struct {
	Addr    netip.AddrPort
	Refused bool
	Err     error
}

func (e *ConnectError) Error() string {
	if e.Refused {
		return fmt.Sprintf("socks5: connect %s: refused: %v", e.Addr, e.Err)
	}
	return fmt.Sprintf("socks5: connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// ErrHandshakeTimeout is matched by every *TimeoutError.
var ErrHandshakeTimeout = errors.New("socks5: handshake timeout")

// TimeoutError reports a handshake that did not finish before its deadline.
// State is the step that was in progress when the deadline fired.
type TimeoutError struct {
	State State
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%v during %s", ErrHandshakeTimeout, e.State)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrHandshakeTimeout }
