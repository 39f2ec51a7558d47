package socks5

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"net/netip"

	txsocks5 "github.com/txthinking/socks5"
)

const (
	// Version is the only protocol version spoken.
	Version = txsocks5.Ver

	// MethodNoAuth is the only authentication method accepted.
	MethodNoAuth = txsocks5.MethodNone

	CmdConnect      = txsocks5.CmdConnect
	CmdBind         = txsocks5.CmdBind
	CmdUDPAssociate = txsocks5.CmdUDP
)

// Reply codes written by this server.
const (
	RepSucceeded         = txsocks5.RepSuccess
	RepGeneralFailure    = txsocks5.RepServerFailure
	RepConnectionRefused = txsocks5.RepConnectionRefused
)

// ReplyCode maps the outcome of the outbound connect to a REP value.
func ReplyCode(connectErr error) byte {
	if connectErr == nil {
		return RepSucceeded
	}
	if isConnRefused(connectErr) {
		return RepConnectionRefused
	}
	return RepGeneralFailure
}

// EncodeReply returns the complete reply packet for rep and bound: 10 bytes
// for an IPv4 address, 22 for IPv6.
func EncodeReply(rep byte, bound netip.AddrPort) []byte {
	ip := bound.Addr().Unmap()
	atyp := txsocks5.ATYPIPv4
	if !ip.Is4() {
		atyp = txsocks5.ATYPIPv6
		if !ip.IsValid() {
			ip = netip.IPv6Unspecified()
		}
	}
	port := make([]byte, 2)
	binary.BigEndian.PutUint16(port, bound.Port())

	var buf bytes.Buffer
	buf.Grow(4 + len(ip.AsSlice()) + 2)
	_, _ = txsocks5.NewReply(rep, atyp, ip.AsSlice(), port).WriteTo(&buf)
	return buf.Bytes()
}

// boundAddr returns the address to report in a reply: the local address of
// the upstream connection when it is a TCP address, otherwise fallback.
func boundAddr(upstream net.Conn, fallback netip.AddrPort) netip.AddrPort {
	if upstream == nil {
		return fallback
	}
	if ta, ok := upstream.LocalAddr().(*net.TCPAddr); ok && ta.IP != nil {
		ap := ta.AddrPort()
		return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
	}
	return fallback
}

// ReplyError is a non-success REP value received from an upstream server.
type ReplyError byte

func (r ReplyError) Error() string {
	switch byte(r) {
	case RepGeneralFailure:
		return "socks5 reply: general server failure"
	case RepConnectionRefused:
		return "socks5 reply: connection refused"
	default:
		return fmt.Sprintf("socks5 reply: failure code %#x", byte(r))
	}
}

// IsConnRefused reports whether err means the destination refused the
// connection, either locally or as reported by an upstream proxy.
func IsConnRefused(err error) bool {
	return isConnRefused(err)
}

func isConnRefused(err error) bool {
	var rep ReplyError
	if errors.As(err, &rep) {
		return byte(rep) == RepConnectionRefused
	}
	return errors.Is(err, errConnRefused)
}
