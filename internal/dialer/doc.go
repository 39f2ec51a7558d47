// Package dialer provides the outbound dialers used by socks5d.
//
// Dialers implement a small interface (DialContext) and open the upstream
// side of a proxied connection either directly or through another SOCKS5
// proxy.
package dialer
