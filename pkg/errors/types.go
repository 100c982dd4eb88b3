package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Recording errors
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	ErrCodeRecordingActive  ErrorCode = "RECORDING_ACTIVE"

	// Pipeline errors
	ErrCodeTranscriptionFailed ErrorCode = "TRANSCRIPTION_FAILED"
	ErrCodeSummarizationFailed ErrorCode = "SUMMARIZATION_FAILED"

	// Storage errors
	ErrCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeConflict           ErrorCode = "CONFLICT"

	// Validation errors
	ErrCodeValidation   ErrorCode = "VALIDATION"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// External service errors
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE"
	ErrCodeSyncItemFailed  ErrorCode = "SYNC_ITEM_FAILED"

	// Internal errors
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// AppError represents a structured application error
type AppError struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	Cause    error     `json:"-"`
	HTTPCode int       `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// GetHTTPCode returns the appropriate HTTP status code
func (e *AppError) GetHTTPCode() int {
	if e.HTTPCode != 0 {
		return e.HTTPCode
	}
	return getDefaultHTTPCode(e.Code)
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Newf creates a new AppError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with an AppError
func Wrap(cause error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Cause:    cause,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(cause error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(cause, code, fmt.Sprintf(format, args...))
}

func getDefaultHTTPCode(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict, ErrCodeRecordingActive:
		return http.StatusConflict
	case ErrCodeValidation, ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodePermissionDenied:
		return http.StatusForbidden
	case ErrCodeExternalService, ErrCodeTranscriptionFailed, ErrCodeSummarizationFailed:
		return http.StatusBadGateway
	case ErrCodeStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Is checks if an error carries a specific code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// GetHTTPCode extracts the HTTP status code from an error
func GetHTTPCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.GetHTTPCode()
	}
	return http.StatusInternalServerError
}

// Domain error constructors

// NotFound creates a not found error
func NotFound(resource string, id interface{}) *AppError {
	return Newf(ErrCodeNotFound, "%s %v not found", resource, id)
}

// TranscriptionFailed creates an error for a failed transcription stage
func TranscriptionFailed(cause error) *AppError {
	return Wrap(cause, ErrCodeTranscriptionFailed, "transcription failed")
}

// SummarizationFailed creates an error for a failed summarization stage
func SummarizationFailed(cause error) *AppError {
	return Wrap(cause, ErrCodeSummarizationFailed, "summarization failed")
}

// PermissionDenied creates a microphone permission error
func PermissionDenied(device string) *AppError {
	return Newf(ErrCodePermissionDenied, "audio capture denied for device %q", device)
}

// StorageUnavailable creates a storage error
func StorageUnavailable(cause error) *AppError {
	return Wrap(cause, ErrCodeStorageUnavailable, "local store unavailable")
}
