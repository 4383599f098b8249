// Package errors provides standardized error handling for the sync and
// dispatch pipeline.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Provider errors
	ErrCodeProviderFetchFailed ErrorCode = "PROVIDER_FETCH_FAILED"
	ErrCodeProviderRateLimited ErrorCode = "PROVIDER_RATE_LIMITED"
	ErrCodePayloadInvalid      ErrorCode = "PAYLOAD_VALIDATION_FAILED"

	// Store errors
	ErrCodeStoreReadFailed  ErrorCode = "STORE_READ_FAILED"
	ErrCodeStoreWriteFailed ErrorCode = "STORE_WRITE_FAILED"

	// Push delivery errors
	ErrCodePushSendFailed   ErrorCode = "PUSH_SEND_FAILED"
	ErrCodePushTokenInvalid ErrorCode = "PUSH_TOKEN_INVALID"

	// Webhook errors
	ErrCodeWebhookSignatureInvalid ErrorCode = "WEBHOOK_SIGNATURE_INVALID"
	ErrCodeWebhookPayloadInvalid   ErrorCode = "WEBHOOK_PAYLOAD_INVALID"
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

// NewProviderFetchFailedError creates a retryable provider error.
func NewProviderFetchFailedError(provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderFetchFailed,
		Message:   "External provider fetch failed",
		Details:   fmt.Sprintf("provider: %s, error: %s", provider, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderRateLimitedError creates a transient rate-limit error; the
// affected item is skipped for the current run and retried next cadence.
func NewProviderRateLimitedError(provider string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderRateLimited,
		Message:   "External provider rate limit hit",
		Details:   fmt.Sprintf("provider: %s", provider),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPayloadInvalidError creates a non-retryable per-item validation error.
func NewPayloadInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadInvalid,
		Message:   "Provider payload failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreReadFailedError creates a retryable store read error.
func NewStoreReadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreReadFailed,
		Message:   "Persistent store read failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreWriteFailedError creates a retryable store write error.
func NewStoreWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreWriteFailed,
		Message:   "Persistent store write failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPushSendFailedError creates a non-retryable delivery error that is
// logged and swallowed at the fan-out item boundary.
func NewPushSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePushSendFailed,
		Message:   "Push delivery failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPushTokenInvalidError creates a terminal token error that triggers
// token cleanup rather than a retry.
func NewPushTokenInvalidError(token string) *StandardError {
	return &StandardError{
		Code:      ErrCodePushTokenInvalid,
		Message:   "Push token no longer registered",
		Details:   fmt.Sprintf("token: %s", token),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewWebhookSignatureInvalidError creates a permanent authentication error.
func NewWebhookSignatureInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWebhookSignatureInvalid,
		Message:   "Webhook signature verification failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewWebhookPayloadInvalidError creates a permanent payload-shape error.
func NewWebhookPayloadInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWebhookPayloadInvalid,
		Message:   "Webhook payload failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Retry and Category Lookup
// ==========================

// GetRetryCount returns how many scheduler retries a failure class earns.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeProviderFetchFailed, ErrCodeStoreReadFailed, ErrCodeStoreWriteFailed:
		return 3
	case ErrCodeProviderRateLimited:
		return 0 // picked up again next cadence, never retried in-run
	default:
		return 0
	}
}

// GetErrorCategory maps an error code to its failure-handling class.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeWebhookSignatureInvalid:
		return "authentication"
	case ErrCodePayloadInvalid, ErrCodeWebhookPayloadInvalid:
		return "validation"
	case ErrCodeProviderFetchFailed, ErrCodeStoreReadFailed, ErrCodeStoreWriteFailed:
		return "transient_io"
	case ErrCodePushTokenInvalid:
		return "terminal_delivery"
	case ErrCodeProviderRateLimited:
		return "rate_limit"
	default:
		return "unknown"
	}
}
