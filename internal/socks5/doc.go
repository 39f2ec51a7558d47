// Package socks5 implements the server side of the SOCKS5 CONNECT handshake
// used by socks5d.
//
// The handshake is an explicit state machine (see State) driven over a single
// downstream connection: method negotiation (no-auth only), request parsing,
// destination resolution, the outbound connect and the reply packet. Handshake
// wraps the whole sequence in a deadline; when it fires, every pending read,
// write, lookup and connect is abandoned and any upstream connection opened
// along the way is closed.
//
// The wire-level constants and reply packets come from
// github.com/txthinking/socks5. A small no-auth client (ClientDial) is also
// provided for chaining through an upstream SOCKS5 proxy.
package socks5
