// Package errors provides standardized error handling for the academy API.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Assessment flow
	ErrCodeAttemptNotFound   ErrorCode = "ATTEMPT_NOT_FOUND"
	ErrCodeAttemptExpired    ErrorCode = "ATTEMPT_EXPIRED"
	ErrCodeAnswerRequired    ErrorCode = "ANSWER_REQUIRED"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeContactIncomplete ErrorCode = "CONTACT_INCOMPLETE"
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"

	// External collaborators
	ErrCodeSubmissionFailed       ErrorCode = "SUBMISSION_FAILED"
	ErrCodeSubmissionTimeout      ErrorCode = "SUBMISSION_TIMEOUT"
	ErrCodeSessionCacheFailed     ErrorCode = "SESSION_CACHE_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewAttemptNotFoundError creates a non-retryable lookup error.
func NewAttemptNotFoundError(attemptID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAttemptNotFound,
		Message:   "Assessment attempt not found",
		Details:   fmt.Sprintf("attemptId: %s", attemptID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnswerRequiredError signals a refused advance: the current question has
// no stored answer. This is a local gate, not a fault.
func NewAnswerRequiredError(questionIndex int) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnswerRequired,
		Message:   "Current question must be answered before advancing",
		Retryable: false,
		Metadata:  map[string]interface{}{"questionIndex": questionIndex},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTransitionError signals an operation that is not legal in the
// attempt's current state.
func NewInvalidTransitionError(state, operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTransition,
		Message:   "Operation not allowed in current state",
		Details:   fmt.Sprintf("state=%s operation=%s", state, operation),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewContactIncompleteError signals a refused submission: one or more contact
// fields are empty.
func NewContactIncompleteError(missing []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeContactIncomplete,
		Message:   "All contact fields are required before submission",
		Retryable: false,
		Metadata:  map[string]interface{}{"missingFields": missing},
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError wraps request payload validation failures.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionFailedError creates a retryable CRM forwarding error. The
// computed score and tier remain valid and displayable.
func NewSubmissionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionFailed,
		Message:   "Lead submission to CRM failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionTimeoutError creates a retryable timeout error.
func NewSubmissionTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionTimeout,
		Message:   "Lead submission to CRM timed out",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionCacheFailedError creates a retryable cache error.
func NewSessionCacheFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionCacheFailed,
		Message:   "Session cache operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a non-blocking notification error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   fmt.Sprintf("Failed to send %s notification", notificationType),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Integration
// ==========================

// HTTPStatus maps an error code to the HTTP status returned by the API.
// Refused gate transitions are conflicts, not server faults.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeAttemptNotFound, ErrCodeAttemptExpired:
		return http.StatusNotFound
	case ErrCodeAnswerRequired, ErrCodeContactIncomplete, ErrCodeInvalidTransition:
		return http.StatusConflict
	case ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeSubmissionFailed, ErrCodeSubmissionTimeout:
		return http.StatusBadGateway
	case ErrCodeSessionCacheFailed, ErrCodeNotificationSendFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryableErrorCode reports whether clients may retry the operation as-is.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeSubmissionFailed, ErrCodeSubmissionTimeout,
		ErrCodeSessionCacheFailed, ErrCodeNotificationSendFailed:
		return true
	default:
		return false
	}
}

// GetErrorCategory groups codes for metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeAnswerRequired, ErrCodeContactIncomplete,
		ErrCodeInvalidTransition, ErrCodeValidationFailed:
		return "validation"
	case ErrCodeAttemptNotFound, ErrCodeAttemptExpired:
		return "not_found"
	case ErrCodeSubmissionFailed, ErrCodeSubmissionTimeout:
		return "submission"
	case ErrCodeSessionCacheFailed:
		return "cache"
	case ErrCodeNotificationSendFailed:
		return "notification"
	default:
		return "internal"
	}
}

// AsStandardError normalizes any error to a StandardError.
func AsStandardError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return NewInternalError(err)
}
