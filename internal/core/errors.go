package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Configuration errors: rejected before evaluation, never defaulted.
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// Strategy document errors
	ErrStrategyInvalid = &Error{Code: "STRATEGY_INVALID", Message: "strategy definition invalid"}
	ErrNotFound        = &Error{Code: "NOT_FOUND", Message: "resource not found"}
	ErrForbidden       = &Error{Code: "FORBIDDEN", Message: "operation not permitted for this user"}
	ErrUnauthorized    = &Error{Code: "UNAUTHORIZED", Message: "caller identity missing or rejected"}

	// Collaborator failures: retryable at the caller's discretion.
	ErrCollectorFailed = &Error{Code: "COLLECTOR_FAILED", Message: "market data fetch failed"}
	ErrStoreFailed     = &Error{Code: "STORE_FAILED", Message: "strategy store operation failed"}
	ErrArchiveFailed   = &Error{Code: "ARCHIVE_FAILED", Message: "archive operation failed"}

	// Data errors
	ErrNoData = &Error{Code: "NO_DATA", Message: "no data available"}
)
