package database

import (
	"context"
	"time"

	"gorm.io/gorm/logger"
)

// metricsLogger is a gorm logger that feeds every traced query error into the
// SQLite and counter-decode metrics before handing it to the wrapped logger.
type metricsLogger struct {
	logger.Interface
}

// LogMode keeps the wrapper around the re-levelled logger.
func (l metricsLogger) LogMode(level logger.LogLevel) logger.Interface {
	return metricsLogger{Interface: l.Interface.LogMode(level)}
}

func (l metricsLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	recordQueryError(err)
	l.Interface.Trace(ctx, begin, fc, err)
}
