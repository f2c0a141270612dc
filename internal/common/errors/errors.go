// internal/common/errors/errors.go

// Package errors provides the standardized error taxonomy of the dispatch
// pipeline. Drop-path codes are non-retryable by definition: the pipeline
// discards the event rather than asking the feed to redeliver it.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Drop paths: malformed or filtered input, never retried.
	ErrCodeEventMalformed ErrorCode = "EVENT_MALFORMED"
	ErrCodeEventFiltered  ErrorCode = "EVENT_FILTERED"
	ErrCodeChatNotFound   ErrorCode = "CHAT_NOT_FOUND"

	// Soft failures: defaults applied, processing continues.
	ErrCodeProfileLookupFailed ErrorCode = "PROFILE_LOOKUP_FAILED"

	// Channel failures: logged, non-fatal to the dispatch.
	ErrCodeRecordWriteFailed ErrorCode = "RECORD_WRITE_FAILED"
	ErrCodePushSendFailed    ErrorCode = "PUSH_SEND_FAILED"

	// Infrastructure failures outside the per-event boundary.
	ErrCodeFeedReadFailed           ErrorCode = "FEED_READ_FAILED"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
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

// NewEventMalformedError creates a non-retryable drop-path error.
func NewEventMalformedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEventMalformed,
		Message:   "Event payload failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEventFilteredError creates a non-retryable drop-path error.
func NewEventFilteredError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEventFiltered,
		Message:   "Event filtered before dispatch",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewChatNotFoundError creates a non-retryable resolution-miss error.
func NewChatNotFoundError(chatID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeChatNotFound,
		Message:   "Chat document not found",
		Details:   fmt.Sprintf("chatId: %s", chatID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileLookupFailedError creates a tolerated profile read error.
func NewProfileLookupFailedError(userID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileLookupFailed,
		Message:   "User profile lookup failed",
		Details:   fmt.Sprintf("userId: %s, error: %s", userID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordWriteFailedError creates a retryable in-app write error.
func NewRecordWriteFailedError(userID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordWriteFailed,
		Message:   "In-app notification write failed",
		Details:   fmt.Sprintf("userId: %s, error: %s", userID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPushSendFailedError creates a push gateway error. Push is best-effort,
// so the error is recorded but never escalated past the dispatcher.
func NewPushSendFailedError(userID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePushSendFailed,
		Message:   "Push notification delivery failed",
		Details:   fmt.Sprintf("userId: %s, error: %s", userID, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFeedReadFailedError creates a retryable feed consumption error.
func NewFeedReadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFeedReadFailed,
		Message:   "Change feed read failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// IsRetryable reports whether the error carries a retryable code.
func IsRetryable(err error) bool {
	if se, ok := err.(*StandardError); ok {
		return se.Retryable
	}
	return false
}
