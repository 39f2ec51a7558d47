//go:build !unix && !windows

package socks5

import "syscall"

var errConnRefused error = syscall.ECONNREFUSED
