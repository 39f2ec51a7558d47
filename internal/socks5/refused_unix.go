//go:build unix

package socks5

import "golang.org/x/sys/unix"

var errConnRefused error = unix.ECONNREFUSED
