package socks5

import (
	"fmt"
	"net"

	txsocks5 "github.com/txthinking/socks5"
)

// ClientDial performs a no-auth CONNECT to address over conn, which must
// already be connected to a SOCKS5 server. A non-success reply is returned
// as a ReplyError.
func ClientDial(conn net.Conn, address string) error {
	if err := ClientNegotiate(conn); err != nil {
		return err
	}
	return ClientConnect(conn, address)
}

func ClientNegotiate(conn net.Conn) error {
	if _, err := txsocks5.NewNegotiationRequest([]byte{MethodNoAuth}).WriteTo(conn); err != nil {
		return fmt.Errorf("write negotiation: %w", err)
	}

	neg, err := txsocks5.NewNegotiationReplyFrom(conn)
	if err != nil {
		return fmt.Errorf("read negotiation: %w", err)
	}
	if neg.Method != MethodNoAuth {
		return fmt.Errorf("unsupported negotiation method: %d", neg.Method)
	}
	return nil
}

func ClientConnect(conn net.Conn, address string) error {
	atyp, dstAddr, dstPort, err := txsocks5.ParseAddress(address)
	if err != nil {
		return fmt.Errorf("parse address: %w", err)
	}
	if atyp == txsocks5.ATYPDomain {
		dstAddr = dstAddr[1:]
	}

	if _, err := txsocks5.NewRequest(CmdConnect, atyp, dstAddr, dstPort).WriteTo(conn); err != nil {
		return fmt.Errorf("write request: %w", err)
	}

	rep, err := txsocks5.NewReplyFrom(conn)
	if err != nil {
		return fmt.Errorf("read reply: %w", err)
	}
	if rep.Rep != RepSucceeded {
		return fmt.Errorf("connect %s: %w", address, ReplyError(rep.Rep))
	}
	return nil
}
