// internal/errors/mapper.go
package errors

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Error kinds raised by the service layer. Wrap them with fmt.Errorf("%w")
// or use the constructors below to attach a client-facing message.
var (
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
)

// kindError carries a message safe to return to clients.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func Conflict(format string, args ...any) error {
	return &kindError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) error {
	return &kindError{kind: ErrUnauthorized, msg: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...any) error {
	return &kindError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// IsTransient reports whether err is a persistence failure worth retrying:
// timeouts, cancellations and broken connections. Logical errors are not.
func IsTransient(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn)
}

// Map converts service/repo errors into an HTTP status and a client-facing detail.
// Unknown errors never leak their message; callers are expected to log them.
func Map(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}

	var ke *kindError
	hasMsg := errors.As(err, &ke)
	detail := func(def string) string {
		if hasMsg {
			return ke.msg
		}
		return def
	}

	switch {
	case errors.Is(err, ErrConflict):
		// duplicate email is documented as a 400 on the public API
		return http.StatusBadRequest, detail("resource already exists")

	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, detail("invalid request")

	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, detail("Could not validate credentials")

	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, detail("record not found")

	case IsTransient(err):
		return http.StatusServiceUnavailable, "service temporarily unavailable, please retry"

	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
