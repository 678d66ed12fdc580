package handlers

import (
	"circounter/core"
	"circounter/counter"
	"circounter/database"
	"circounter/service"
	"circounter/version"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// GetCodec describes how counters are stored and coerced
func GetCodec(c *gin.Context) {
	codec := service.GlobalServices.State.Codec()
	ok(c, http.StatusOK, gin.H{
		"column_type":   codec.ColumnType(),
		"column_width":  counter.ColumnWidth,
		"default_range": codec.Range,
		"format":        "start:cycle_len:value",
	})
}

// GetErrorLogs returns recorded data-integrity errors, latest first
func GetErrorLogs(c *gin.Context) {
	ok(c, http.StatusOK, core.ErrorLoggerInstance.GetErrorLogs())
}

// ClearErrorLogs removes all recorded errors
func ClearErrorLogs(c *gin.Context) {
	core.ErrorLoggerInstance.ClearErrorLogs()
	ok(c, http.StatusOK, gin.H{"ok": true})
}

// HealthCheck reports database connectivity
func HealthCheck(c *gin.Context) {
	dbHealthy := service.GlobalServices.State.Healthy(c.Request.Context())

	health := gin.H{
		"status":     "healthy",
		"timestamp":  time.Now().Unix(),
		"db_healthy": dbHealthy,
		"version":    version.GetFullVersion(),
	}

	if !dbHealthy {
		health["status"] = "degraded"
		respond(c, http.StatusServiceUnavailable, core.CodeInternal, "Database unavailable", health)
		return
	}

	ok(c, http.StatusOK, health)
}

// GetMetrics returns SQLite error counters and runtime statistics
func GetMetrics(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	ok(c, http.StatusOK, gin.H{
		"timestamp": time.Now().Unix(),
		"sqlite": gin.H{
			"busy_errors_total":   database.SQLiteBusyErrorsTotal(),
			"locked_errors_total": database.SQLiteLockedErrorsTotal(),
		},
		"counters": gin.H{
			"decode_errors_total": database.CounterDecodeErrorsTotal(),
		},
		"error_logs": gin.H{
			"total": len(core.ErrorLoggerInstance.GetErrorLogs()),
		},
		"system": gin.H{
			"goroutines":   runtime.NumGoroutine(),
			"memory_alloc": mem.Alloc,
			"memory_total": mem.TotalAlloc,
			"memory_sys":   mem.Sys,
			"gc_runs":      mem.NumGC,
		},
	})
}
