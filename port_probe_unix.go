//go:build !windows

package main

import "syscall"

var addrInUseErrnos = []error{syscall.EADDRINUSE}
