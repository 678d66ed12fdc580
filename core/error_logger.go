package core

import (
	"circounter/models"
	"encoding/json"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"
)

// ErrorLogger keeps the most recent data-integrity errors in memory
type ErrorLogger struct {
	logs      []*models.ErrorLog
	logsMap   map[int]*models.ErrorLog
	mu        sync.RWMutex
	maxLogs   int
	idCounter int
}

// ErrorLoggerInstance is the process-wide error log
var ErrorLoggerInstance = NewErrorLogger(100)

// NewErrorLogger returns a logger keeping at most maxLogs entries
func NewErrorLogger(maxLogs int) *ErrorLogger {
	if maxLogs <= 0 {
		maxLogs = 100
	}
	return &ErrorLogger{
		logs:    make([]*models.ErrorLog, 0, maxLogs),
		logsMap: make(map[int]*models.ErrorLog),
		maxLogs: maxLogs,
	}
}

// LogError records an error log entry and mirrors it to the process log
func (e *ErrorLogger) LogError(level, source, message, detail string, contextData map[string]interface{}) *models.ErrorLog {
	// Capture stack trace outside the lock (skip LogError and its helper)
	stack := getStackTrace(3)

	contextJSON := ""
	if contextData != nil {
		if data, err := json.Marshal(contextData); err == nil {
			contextJSON = string(data)
		}
	}

	log.Printf("[%s] %s: %s %s", level, source, message, detail)

	e.mu.Lock()
	defer e.mu.Unlock()

	// Drop the oldest entry once full
	if len(e.logs) >= e.maxLogs {
		oldLog := e.logs[0]
		delete(e.logsMap, oldLog.ID)
		e.logs = e.logs[1:]
	}

	e.idCounter++
	errorLog := &models.ErrorLog{
		ID:        e.idCounter,
		Timestamp: time.Now(),
		Level:     level,
		Source:    source,
		Message:   message,
		Detail:    detail,
		Stack:     stack,
		Context:   contextJSON,
	}

	e.logs = append(e.logs, errorLog)
	e.logsMap[errorLog.ID] = errorLog
	return errorLog
}

// GetErrorLogs returns the recorded logs, latest first
func (e *ErrorLogger) GetErrorLogs() []*models.ErrorLog {
	e.mu.RLock()
	defer e.mu.RUnlock()

	total := len(e.logs)
	result := make([]*models.ErrorLog, total)
	for i := 0; i < total; i++ {
		result[i] = e.logs[total-1-i]
	}

	return result
}

// GetErrorLogByID returns a single error log by ID
func (e *ErrorLogger) GetErrorLogByID(id int) *models.ErrorLog {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.logsMap[id]
}

// ClearErrorLogs removes all error logs
func (e *ErrorLogger) ClearErrorLogs() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logs = make([]*models.ErrorLog, 0, e.maxLogs)
	e.logsMap = make(map[int]*models.ErrorLog)
	e.idCounter = 0
}

// SetMaxLogs changes the capacity, dropping the oldest entries if needed
func (e *ErrorLogger) SetMaxLogs(maxLogs int) {
	if maxLogs <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.maxLogs = maxLogs
	for len(e.logs) > maxLogs {
		delete(e.logsMap, e.logs[0].ID)
		e.logs = e.logs[1:]
	}
}

func getStackTrace(skip int) string {
	const maxDepth = 10
	var stack string

	for i := skip; i < skip+maxDepth; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		funcName := "unknown"
		if fn != nil {
			funcName = fn.Name()
		}

		stack += fmt.Sprintf("%s:%d %s\n", file, line, funcName)
	}

	return stack
}

// LogCorruptCounter records a stored counter that failed to decode or encode
func LogCorruptCounter(source, stateID string, err error) {
	ErrorLoggerInstance.LogError("ERROR", source, "corrupted counter", err.Error(), map[string]interface{}{
		"state_id": stateID,
	})
}

// LogWarn records a warning
func LogWarn(source, message, detail string) {
	ErrorLoggerInstance.LogError("WARN", source, message, detail, nil)
}
