//go:build windows

package main

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// Winsock reports its own code; the syscall one covers wrapped POSIX errors.
var addrInUseErrnos = []error{windows.WSAEADDRINUSE, syscall.EADDRINUSE}
