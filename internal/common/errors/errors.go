// Package errors provides the standardized error taxonomy of the NovaScore client.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Transport
	ErrCodeNetworkFailure ErrorCode = "NETWORK_FAILURE"
	ErrCodeRequestTimeout ErrorCode = "REQUEST_TIMEOUT"

	// Status
	ErrCodeUnexpectedStatus     ErrorCode = "UNEXPECTED_STATUS"
	ErrCodeResponseDecodeFailed ErrorCode = "RESPONSE_DECODE_FAILED"

	// Validation (never leave the process)
	ErrCodeValidationFailed      ErrorCode = "VALIDATION_FAILED"
	ErrCodeRequiredFieldsMissing ErrorCode = "REQUIRED_FIELDS_MISSING"
	ErrCodeInvalidMimeType       ErrorCode = "INVALID_MIME_TYPE"
	ErrCodeInvalidPartnerType    ErrorCode = "INVALID_PARTNER_TYPE"
)

// Error categories returned by GetErrorCategory.
const (
	CategoryTransport  = "TRANSPORT"
	CategoryStatus     = "STATUS"
	CategoryValidation = "VALIDATION"
	CategoryOther      = "OTHER"
)

// StandardError represents a structured client error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches another *StandardError by code so sentinels like
// &StandardError{Code: ErrCodeInvalidMimeType} work with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// StatusCode returns the HTTP status recorded on a status error, or 0.
func (e *StandardError) StatusCode() int {
	if e.Metadata == nil {
		return 0
	}
	if code, ok := e.Metadata["statusCode"].(int); ok {
		return code
	}
	return 0
}

// Category returns the taxonomy bucket of this error.
func (e *StandardError) Category() string {
	return GetErrorCategory(e.Code)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewNetworkFailureError wraps a transport-level failure (connection refused, reset, DNS).
func NewNetworkFailureError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNetworkFailure,
		Message:   "Could not reach the NovaScore API",
		Details:   fmt.Sprintf("operation: %s, error: %v", operation, err),
		Retryable: false,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewRequestTimeoutError wraps a deadline or cancellation.
func NewRequestTimeoutError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestTimeout,
		Message:   "NovaScore API request timed out",
		Details:   fmt.Sprintf("operation: %s, error: %v", operation, err),
		Retryable: false,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewUnexpectedStatusError records a non-2xx response. serviceMessage is the
// `error`/`message` text the API sent back, if any.
func NewUnexpectedStatusError(operation string, statusCode int, serviceMessage string) *StandardError {
	msg := fmt.Sprintf("NovaScore API returned status %d", statusCode)
	return &StandardError{
		Code:      ErrCodeUnexpectedStatus,
		Message:   msg,
		Details:   serviceMessage,
		Retryable: false,
		Metadata: map[string]interface{}{
			"operation":  operation,
			"statusCode": statusCode,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewResponseDecodeFailedError records a 2xx response whose body could not be decoded.
func NewResponseDecodeFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponseDecodeFailed,
		Message:   "NovaScore API response could not be decoded",
		Details:   fmt.Sprintf("operation: %s, error: %v", operation, err),
		Retryable: false,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewValidationFailedError reports field-level validation problems.
func NewValidationFailedError(details string, fields []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Partner data failed validation",
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"fields": fields},
		Timestamp: time.Now().UTC(),
	}
}

// NewRequiredFieldsMissingError reports unset required form fields.
func NewRequiredFieldsMissingError(fields []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequiredFieldsMissing,
		Message:   "Please fill in all required fields",
		Details:   strings.Join(fields, ", "),
		Retryable: false,
		Metadata:  map[string]interface{}{"fields": fields},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidMimeTypeError rejects an upload that is not text/csv.
func NewInvalidMimeTypeError(filename, mediaType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidMimeType,
		Message:   "Please select a valid CSV file",
		Details:   fmt.Sprintf("file: %s, type: %s", filename, mediaType),
		Retryable: false,
		Metadata:  map[string]interface{}{"filename": filename, "mediaType": mediaType},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPartnerTypeError rejects an unknown partner type string.
func NewInvalidPartnerTypeError(value string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPartnerType,
		Message:   "Unknown partner type",
		Details:   fmt.Sprintf("partnerType: %q", value),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeNetworkFailure, ErrCodeRequestTimeout:
		return CategoryTransport
	case ErrCodeUnexpectedStatus, ErrCodeResponseDecodeFailed:
		return CategoryStatus
	}
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "MISSING"):
		return CategoryValidation
	default:
		return CategoryOther
	}
}

// AsStandard extracts a *StandardError from err's chain.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first StandardError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr.Code
	}
	return ""
}
