package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the status-classed error that crosses the engine/API boundary.
// Status is an HTTP status class: 400 for malformed input or unknown ids,
// 403 for missing or insufficient authority.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// BadRequest reports malformed input, unknown container/message ids and
// invalid state transitions.
func BadRequest(format string, args ...any) error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Forbidden reports an invalid session or insufficient privilege.
func Forbidden(format string, args ...any) error {
	return &Error{Status: http.StatusForbidden, Message: fmt.Sprintf(format, args...)}
}

// StatusOf returns the status class carried by err, or 500 when err is not
// an *Error.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}
