// internal/core/errors.go
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
	// Pipeline errors
	ErrNoImage        = &Error{Code: "NO_IMAGE", Message: "no chart image loaded"}
	ErrAnalysisBusy   = &Error{Code: "ANALYSIS_BUSY", Message: "analysis already in flight"}
	ErrAnalysisFailed = &Error{Code: "ANALYSIS_FAILED", Message: "failed to analyze image"}
	ErrSignalInvalid  = &Error{Code: "SIGNAL_INVALID", Message: "response is not a valid signal"}

	// Ingestion errors
	ErrImageUnreadable  = &Error{Code: "IMAGE_UNREADABLE", Message: "could not read image"}
	ErrDataURIMalformed = &Error{Code: "DATA_URI_MALFORMED", Message: "malformed data URI"}

	// Storage errors
	ErrStorageFailed = &Error{Code: "STORAGE_FAILED", Message: "history storage failed"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// Provider errors
	ErrProviderFailed = &Error{Code: "PROVIDER_FAILED", Message: "inference provider request failed"}
)
