package main

import (
	"errors"
	"fmt"
	"net"
	"testing"
)

func listenAny(t *testing.T) (net.Listener, int) {
	t.Helper()
	l, err := net.Listen("tcp", "0.0.0.0:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l, l.Addr().(*net.TCPAddr).Port
}

func TestNextFreePort_SkipsBusyPort(t *testing.T) {
	_, busy := listenAny(t)

	port, err := nextFreePort(busy)
	if err != nil {
		t.Fatalf("nextFreePort(%d): %v", busy, err)
	}
	if port == busy || port >= busy+portProbeSpan {
		t.Fatalf("nextFreePort(%d) = %d", busy, port)
	}
}

func TestProbePort(t *testing.T) {
	_, busy := listenAny(t)

	free, err := probePort(busy)
	if err != nil || free {
		t.Fatalf("probePort(busy %d) = %v, %v; want false, nil", busy, free, err)
	}
}

func TestIsAddrInUse(t *testing.T) {
	l, _ := listenAny(t)

	_, err := net.Listen("tcp", l.Addr().String())
	if err == nil {
		t.Fatal("second listen on the same address succeeded")
	}
	if !isAddrInUse(err) {
		t.Fatalf("isAddrInUse(%v) = false", err)
	}
	if !isAddrInUse(fmt.Errorf("wrapped: %w", err)) {
		t.Fatal("isAddrInUse missed a wrapped error")
	}
	if isAddrInUse(errors.New("boom")) {
		t.Fatal("isAddrInUse matched an unrelated error")
	}
}
