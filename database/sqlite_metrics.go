package database

import (
	"circounter/counter"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"gorm.io/gorm"
)

var (
	sqliteBusyErrors    uint64
	sqliteLockedErrors  uint64
	counterDecodeErrors uint64
)

func classifySQLiteError(err error) (busy bool, locked bool) {
	if err == nil {
		return false, false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false, false
	}

	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "sqlite_busy") || strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy timeout") {
		busy = true
	}
	if strings.Contains(msg, "sqlite_locked") || strings.Contains(msg, "database table is locked") {
		locked = true
	}

	return busy, locked
}

func recordSQLiteError(err error) {
	busy, locked := classifySQLiteError(err)
	if busy {
		atomic.AddUint64(&sqliteBusyErrors, 1)
	}
	if locked {
		atomic.AddUint64(&sqliteLockedErrors, 1)
	}
}

// recordQueryError updates every metric err belongs to; nil is ignored.
func recordQueryError(err error) {
	if err == nil {
		return
	}
	recordSQLiteError(err)
	recordCounterDecodeError(err)
}

// recordCounterDecodeError counts rows whose counter column no longer decodes
func recordCounterDecodeError(err error) {
	if errors.Is(err, counter.ErrMalformedEncoding) || errors.Is(err, counter.ErrInvalidRange) {
		atomic.AddUint64(&counterDecodeErrors, 1)
	}
}

// CounterDecodeErrorsTotal returns the number of queries that failed on a corrupt counter column.
func CounterDecodeErrorsTotal() uint64 {
	return atomic.LoadUint64(&counterDecodeErrors)
}

// SQLiteBusyErrorsTotal returns the number of SQLITE_BUSY errors seen by the gorm logger.
func SQLiteBusyErrorsTotal() uint64 {
	return atomic.LoadUint64(&sqliteBusyErrors)
}

// SQLiteLockedErrorsTotal returns the number of SQLITE_LOCKED errors seen by the gorm logger.
func SQLiteLockedErrorsTotal() uint64 {
	return atomic.LoadUint64(&sqliteLockedErrors)
}

// SQLiteUp pings db, bounding the ping to 200ms when ctx has no deadline.
func SQLiteUp(ctx context.Context, db *gorm.DB) bool {
	if db == nil {
		return false
	}

	sqlDB, err := db.DB()
	if err != nil {
		return false
	}

	if deadline, ok := ctx.Deadline(); !ok || time.Until(deadline) <= 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 200*time.Millisecond)
		defer cancel()
	}

	return sqlDB.PingContext(ctx) == nil
}
