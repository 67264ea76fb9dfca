package service

import "net/http"

// Error is the failure half of the use-case response envelope: a fixed
// human-readable message plus the HTTP status it maps to. Domain failures are
// returned as values, never panics.
type Error struct {
	Message string
	Status  int
}

func (e *Error) Error() string {
	return e.Message
}

// NewError creates a domain error with an explicit status code.
func NewError(message string, status int) *Error {
	return &Error{Message: message, Status: status}
}

// ErrInternal hides the cause of unexpected failures from callers.
func ErrInternal() *Error {
	return &Error{Message: "Internal server error.", Status: http.StatusInternalServerError}
}
