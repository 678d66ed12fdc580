package core

import (
	"circounter/counter"
	"errors"
	"net/http"
)

var (
	ErrStateNotFound  = errors.New("state not found")
	ErrStateExists    = errors.New("state already exists")
	ErrInvalidRequest = errors.New("invalid request")
	// ErrCorruptRow marks a stored counter that no longer decodes.
	ErrCorruptRow = errors.New("stored counter is corrupted")
)

// Response codes used in the API envelope
const (
	CodeOK             = "OK"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeDataCorrupted  = "DATA_CORRUPTED"
	CodeInternal       = "INTERNAL_ERROR"
)

// APIError is an error with the HTTP status and envelope code it maps to
type APIError struct {
	Message string
	Status  int
	Code    string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Classify maps err to the status and code reported to API clients.
// Corrupted rows are checked first: they wrap counter errors too.
func Classify(err error) *APIError {
	var apiErr *APIError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, ErrCorruptRow):
		return &APIError{Message: "Stored counter is corrupted", Status: http.StatusInternalServerError, Code: CodeDataCorrupted, Err: err}
	case errors.Is(err, ErrStateNotFound):
		return &APIError{Message: "State not found", Status: http.StatusNotFound, Code: CodeNotFound, Err: err}
	case errors.Is(err, ErrStateExists):
		return &APIError{Message: "State already exists", Status: http.StatusConflict, Code: CodeConflict, Err: err}
	case errors.Is(err, counter.ErrInvalidRange),
		errors.Is(err, counter.ErrMalformedEncoding),
		errors.Is(err, counter.ErrTypeMismatch):
		return &APIError{Message: "Invalid counter", Status: http.StatusBadRequest, Code: CodeInvalidRequest, Err: err}
	case errors.Is(err, ErrInvalidRequest):
		return &APIError{Message: "Invalid request", Status: http.StatusBadRequest, Code: CodeInvalidRequest, Err: err}
	default:
		return &APIError{Message: "Internal error", Status: http.StatusInternalServerError, Code: CodeInternal, Err: err}
	}
}
