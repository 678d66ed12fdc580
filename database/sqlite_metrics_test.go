package database

import (
	"circounter/counter"
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifySQLiteError_Busy(t *testing.T) {
	busy, locked := classifySQLiteError(errors.New("SQLITE_BUSY: database is locked"))
	if !busy || locked {
		t.Fatalf("expected busy=true locked=false, got busy=%v locked=%v", busy, locked)
	}
}

func TestClassifySQLiteError_Locked(t *testing.T) {
	busy, locked := classifySQLiteError(errors.New("SQLITE_LOCKED: database table is locked"))
	if busy || !locked {
		t.Fatalf("expected busy=false locked=true, got busy=%v locked=%v", busy, locked)
	}
}

func TestClassifySQLiteError_IgnoresCancellation(t *testing.T) {
	busy, locked := classifySQLiteError(fmt.Errorf("query: %w", context.Canceled))
	if busy || locked {
		t.Fatalf("expected no classification for cancellation, got busy=%v locked=%v", busy, locked)
	}
}

func TestRecordCounterDecodeError(t *testing.T) {
	before := CounterDecodeErrorsTotal()

	recordCounterDecodeError(fmt.Errorf("sql: Scan error on column index 2: %w", counter.ErrMalformedEncoding))
	recordCounterDecodeError(errors.New("SQLITE_BUSY"))

	if got := CounterDecodeErrorsTotal(); got != before+1 {
		t.Fatalf("CounterDecodeErrorsTotal() = %d, want %d", got, before+1)
	}
}
