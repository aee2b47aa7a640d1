package reservation

import (
	"errors"
	"fmt"
)

// Stable failure taxonomy surfaced verbatim to callers.
const (
	CodeTenantUnavailable       = "TENANT_UNAVAILABLE"
	CodeClientBlocked           = "CLIENT_BLOCKED"
	CodeProfessionalUnavailable = "PROFESSIONAL_UNAVAILABLE"
	CodeServiceUnavailable      = "SERVICE_UNAVAILABLE"
	CodeSlotConflict            = "SLOT_CONFLICT"
	CodeTransientFailure        = "TRANSIENT_FAILURE"
	CodeInternalError           = "INTERNAL_ERROR"
)

// Error is the typed failure the reservation engine returns. Only
// TRANSIENT_FAILURE is worth retrying, and only with backoff; every other
// code reflects state the caller must re-fetch or a genuine conflict.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether an automatic retry could change the outcome.
func (e *Error) Retryable() bool {
	return e.Code == CodeTransientFailure
}

// CodeOf extracts the failure code from any error chain, defaulting to
// INTERNAL_ERROR for errors the engine did not classify.
func CodeOf(err error) string {
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return CodeInternalError
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func wrapError(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}
