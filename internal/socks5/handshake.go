package socks5

import (
	"context"
	"net"
	"net/netip"
	"slices"
)

// Resolver turns a domain name from a request into an IP address.
type Resolver interface {
	Resolve(ctx context.Context, name string) (netip.Addr, error)
}

// Dialer opens the outbound connection for a CONNECT request.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Session is the result of a successful handshake. The caller owns both
// connections.
type Session struct {
	Downstream  net.Conn
	Upstream    net.Conn
	Destination Addr
	// Target is the resolved address that Upstream is connected to.
	Target netip.AddrPort
	// Bound is the address reported to the client in the reply.
	Bound netip.AddrPort
}

// handshake holds the per-connection state between steps.
type handshake struct {
	conn     net.Conn
	resolver Resolver
	dialer   Dialer

	state      State
	atyp       AddrType
	dst        Addr
	target     netip.AddrPort
	upstream   net.Conn
	connectErr error
}

// run drives the state machine to StateDone. On any error the upstream
// connection, if one was opened, is closed before returning.
func (h *handshake) run(ctx context.Context) (*Session, error) {
	for h.state != StateDone {
		next, err := h.step(ctx)
		if err != nil {
			h.closeUpstream()
			return nil, err
		}
		h.state = next
	}

	if h.connectErr != nil {
		return nil, &ConnectError{
			Addr:    h.target,
			Refused: isConnRefused(h.connectErr),
			Err:     h.connectErr,
		}
	}

	return &Session{
		Downstream:  h.conn,
		Upstream:    h.upstream,
		Destination: h.dst,
		Target:      h.target,
		Bound:       boundAddr(h.upstream, h.target),
	}, nil
}

func (h *handshake) step(ctx context.Context) (State, error) {
	switch h.state {
	case StateStart:
		return StateVersionRead, nil
	case StateVersionRead:
		return h.readVersion(StateMethodsRead)
	case StateMethodsRead:
		return h.readMethods()
	case StateMethodAck:
		return h.writeMethodAck()
	case StateVersionConfirm:
		return h.readVersion(StateCommandRead)
	case StateCommandRead:
		return h.readCommand()
	case StateReservedSkip:
		return h.skipReserved()
	case StateAddressTypeRead:
		return h.readAddressType()
	case StateAddressRead:
		return h.readAddress()
	case StateResolve:
		return h.resolve(ctx)
	case StateConnect:
		return h.connect(ctx)
	case StateReplyWrite:
		return h.writeReply(ctx)
	default:
		return StateDone, nil
	}
}

func (h *handshake) readVersion(next State) (State, error) {
	ver, err := readByte(h.conn)
	if err != nil {
		return h.state, err
	}
	if ver != Version {
		return h.state, &ProtocolError{Kind: UnsupportedVersion, Value: ver}
	}
	return next, nil
}

func (h *handshake) readMethods() (State, error) {
	n, err := readByte(h.conn)
	if err != nil {
		return h.state, err
	}
	methods, err := readExact(h.conn, int(n))
	if err != nil {
		return h.state, err
	}
	if !slices.Contains(methods, MethodNoAuth) {
		return h.state, &ProtocolError{Kind: NoAcceptableMethod}
	}
	return StateMethodAck, nil
}

func (h *handshake) writeMethodAck() (State, error) {
	if err := writeAll(h.conn, []byte{Version, MethodNoAuth}); err != nil {
		return h.state, err
	}
	return StateVersionConfirm, nil
}

func (h *handshake) readCommand() (State, error) {
	cmd, err := readByte(h.conn)
	if err != nil {
		return h.state, err
	}
	if cmd != CmdConnect {
		// BIND and UDP ASSOCIATE included.
		return h.state, &ProtocolError{Kind: UnsupportedCommand, Value: cmd}
	}
	return StateReservedSkip, nil
}

func (h *handshake) skipReserved() (State, error) {
	if _, err := readByte(h.conn); err != nil {
		return h.state, err
	}
	return StateAddressTypeRead, nil
}

func (h *handshake) readAddressType() (State, error) {
	atyp, err := readByte(h.conn)
	if err != nil {
		return h.state, err
	}
	switch AddrType(atyp) {
	case AddrIPv4, AddrIPv6, AddrDomain:
		h.atyp = AddrType(atyp)
		return StateAddressRead, nil
	default:
		return h.state, &ProtocolError{Kind: UnknownAddressType, Value: atyp}
	}
}

func (h *handshake) readAddress() (State, error) {
	dst, err := readAddrBody(h.conn, h.atyp)
	if err != nil {
		return h.state, err
	}
	h.dst = dst
	if dst.Type == AddrDomain {
		return StateResolve, nil
	}
	h.target = netip.AddrPortFrom(dst.IP, dst.Port)
	return StateConnect, nil
}

func (h *handshake) resolve(ctx context.Context) (State, error) {
	ip, err := h.resolver.Resolve(ctx, h.dst.Name)
	if err != nil {
		return h.state, err
	}
	h.target = netip.AddrPortFrom(ip.Unmap(), h.dst.Port)
	return StateConnect, nil
}

// connect records the dial outcome instead of failing, so the client still
// gets a reply. Only cancellation of ctx stops the handshake here.
func (h *handshake) connect(ctx context.Context) (State, error) {
	up, err := h.dialer.DialContext(ctx, "tcp", h.target.String())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return h.state, ctxErr
		}
		h.connectErr = err
		return StateReplyWrite, nil
	}
	h.upstream = up
	return StateReplyWrite, nil
}

// writeReply sends nothing once ctx has ended, even if the deadline on conn
// has not been moved yet.
func (h *handshake) writeReply(ctx context.Context) (State, error) {
	if err := ctx.Err(); err != nil {
		return h.state, err
	}
	rep := ReplyCode(h.connectErr)
	if err := writeAll(h.conn, EncodeReply(rep, boundAddr(h.upstream, h.target))); err != nil {
		return h.state, err
	}
	return StateDone, nil
}

func (h *handshake) closeUpstream() {
	if h.upstream != nil {
		_ = h.upstream.Close()
		h.upstream = nil
	}
}
