//go:build windows

package socks5

import "golang.org/x/sys/windows"

var errConnRefused error = windows.WSAECONNREFUSED
