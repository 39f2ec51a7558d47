// Package proxy implements the socks5d listener side: the SOCKS5 accept
// loop, the per-session relay between client and upstream, and shared
// connection plumbing such as keepalive listeners.
package proxy
