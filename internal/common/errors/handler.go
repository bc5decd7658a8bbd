package errors

import (
	"time"
)

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// Notifier receives the user-facing text of a failure.
type Notifier interface {
	Error(message string)
}

// ErrorHandler turns any failure of a view operation into one log line and
// one user notification. The view is left untouched.
type ErrorHandler struct {
	logger   Logger
	notifier Notifier
}

func NewErrorHandler(logger Logger, notifier Notifier) *ErrorHandler {
	return &ErrorHandler{logger: logger, notifier: notifier}
}

// Handle normalizes err, logs it and notifies. It returns the normalized error.
func (h *ErrorHandler) Handle(view, operation string, err error) *StandardError {
	if err == nil {
		return nil
	}
	stdErr := Normalize(err)

	fields := map[string]interface{}{
		"view":          view,
		"operation":     operation,
		"errorCode":     string(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
	}
	if status := stdErr.StatusCode(); status != 0 {
		fields["statusCode"] = status
	}
	h.logger.Error("operation failed", fields)

	if h.notifier != nil {
		h.notifier.Error(UserMessage(stdErr))
	}
	return stdErr
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// UserMessage renders the short notification text for an error.
func UserMessage(stdErr *StandardError) string {
	switch stdErr.Code {
	case ErrCodeUnexpectedStatus:
		if stdErr.Details != "" {
			return stdErr.Message + ": " + stdErr.Details
		}
	case ErrCodeRequiredFieldsMissing:
		return stdErr.Message + " (" + stdErr.Details + ")"
	case ErrCodeValidationFailed:
		return stdErr.Message + ": " + stdErr.Details
	}
	return stdErr.Message
}
