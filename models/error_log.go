package models

import "time"

// ErrorLog is an in-memory record of a rejected or corrupted counter
type ErrorLog struct {
	ID        int       `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`   // ERROR, WARN
	Source    string    `json:"source"`  // Component that hit the error
	Message   string    `json:"message"` // Error message
	Detail    string    `json:"detail"`  // Underlying error text
	Stack     string    `json:"stack"`   // Stack trace
	Context   string    `json:"context"` // Context information (JSON format)
}
