package main

import (
	"errors"
	"fmt"
	"net"
)

// portProbeSpan is how many ports above the configured one are tried.
const portProbeSpan = 100

func isAddrInUse(err error) bool {
	for _, errno := range addrInUseErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

// probePort reports whether port can be bound. A busy port is not an error;
// any other listen failure is.
func probePort(port int) (bool, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", port))
	if err == nil {
		listener.Close()
		return true, nil
	}
	if isAddrInUse(err) {
		return false, nil
	}
	return false, err
}

// nextFreePort returns the first bindable port in [start, start+portProbeSpan).
func nextFreePort(start int) (int, error) {
	for port := start; port < start+portProbeSpan; port++ {
		free, err := probePort(port)
		if err != nil {
			return 0, fmt.Errorf("cannot listen on port %d: %w", port, err)
		}
		if free {
			return port, nil
		}
	}
	return 0, fmt.Errorf("no free port in [%d, %d)", start, start+portProbeSpan)
}
