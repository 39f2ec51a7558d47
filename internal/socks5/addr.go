package socks5

import (
	"encoding/binary"
	"io"
	"net"
	"net/netip"
	"strconv"
	"unicode/utf8"

	txsocks5 "github.com/txthinking/socks5"
)

// Request and reply layout (RFC 1928):
//
//	+----+-----+-------+------+----------+----------+
//	|VER | CMD |  RSV  | ATYP | DST.ADDR | DST.PORT |
//	+----+-----+-------+------+----------+----------+
//	| 1  |  1  | X'00' |  1   | Variable |    2     |
//	+----+-----+-------+------+----------+----------+
//
//	+----+-----+-------+------+----------+----------+
//	|VER | REP |  RSV  | ATYP | BND.ADDR | BND.PORT |
//	+----+-----+-------+------+----------+----------+
//	| 1  |  1  | X'00' |  1   | Variable |    2     |
//	+----+-----+-------+------+----------+----------+

// AddrType is the ATYP tag of a destination address.
type AddrType byte

const (
	AddrIPv4   = AddrType(txsocks5.ATYPIPv4)
	AddrDomain = AddrType(txsocks5.ATYPDomain)
	AddrIPv6   = AddrType(txsocks5.ATYPIPv6)
)

func (t AddrType) String() string {
	switch t {
	case AddrIPv4:
		return "ipv4"
	case AddrDomain:
		return "domain"
	case AddrIPv6:
		return "ipv6"
	default:
		return "atyp(" + strconv.Itoa(int(t)) + ")"
	}
}

// Addr is a destination as sent by the client. IP is set for AddrIPv4 and
// AddrIPv6, Name for AddrDomain.
type Addr struct {
	Type AddrType
	IP   netip.Addr
	Name string
	Port uint16
}

// IPv4Addr, IPv6Addr and DomainAddr construct the three Addr variants.
func IPv4Addr(ip [4]byte, port uint16) Addr {
	return Addr{Type: AddrIPv4, IP: netip.AddrFrom4(ip), Port: port}
}

func IPv6Addr(ip [16]byte, port uint16) Addr {
	return Addr{Type: AddrIPv6, IP: netip.AddrFrom16(ip), Port: port}
}

func DomainAddr(name string, port uint16) Addr {
	return Addr{Type: AddrDomain, Name: name, Port: port}
}

// Host returns the IP literal or the domain name.
func (a Addr) Host() string {
	if a.Type == AddrDomain {
		return a.Name
	}
	return a.IP.String()
}

func (a Addr) String() string {
	return net.JoinHostPort(a.Host(), strconv.Itoa(int(a.Port)))
}

// ReadAddr reads ATYP, DST.ADDR and DST.PORT from r.
func ReadAddr(r io.Reader) (Addr, error) {
	atyp, err := readByte(r)
	if err != nil {
		return Addr{}, err
	}
	return readAddrBody(r, AddrType(atyp))
}

func readAddrBody(r io.Reader, atyp AddrType) (Addr, error) {
	switch atyp {
	case AddrIPv4:
		b, err := readExact(r, net.IPv4len+2)
		if err != nil {
			return Addr{}, err
		}
		return IPv4Addr([4]byte(b[:4]), binary.BigEndian.Uint16(b[4:])), nil

	case AddrIPv6:
		b, err := readExact(r, net.IPv6len+2)
		if err != nil {
			return Addr{}, err
		}
		return IPv6Addr([16]byte(b[:16]), binary.BigEndian.Uint16(b[16:])), nil

	case AddrDomain:
		l, err := readByte(r)
		if err != nil {
			return Addr{}, err
		}
		b, err := readExact(r, int(l)+2)
		if err != nil {
			return Addr{}, err
		}
		name := b[:l]
		if !utf8.Valid(name) {
			return Addr{}, &ProtocolError{Kind: InvalidHostname}
		}
		return DomainAddr(string(name), binary.BigEndian.Uint16(b[l:])), nil

	default:
		return Addr{}, &ProtocolError{Kind: UnknownAddressType, Value: byte(atyp)}
	}
}
