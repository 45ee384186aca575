package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassAuth represents 401/403 authentication failures.
	ErrorClassAuth ErrorClass = "auth"

	// ErrorClassRateLimit represents 429 quota exhaustion. Terminal: retrying
	// immediately would only worsen the condition, so the caller is expected
	// to fall back to cached data instead.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassClient represents other 4xx failures (malformed request).
	ErrorClassClient ErrorClass = "client"

	// ErrorClassTransient represents network errors and 5xx failures.
	ErrorClassTransient ErrorClass = "transient"

	// ErrorClassMalformed represents a response that parsed as JSON but does
	// not match the expected shape.
	ErrorClassMalformed ErrorClass = "malformed"
)

// APIError is a classified request failure.
type APIError struct {
	StatusCode int
	Class      ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("api %s error (status %d): %s: %v",
			e.Class, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("api %s error (status %d): %s",
		e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// ErrorClassOf extracts the error class from err, or "" if err carries none.
func ErrorClassOf(err error) ErrorClass {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Class
	}
	return ""
}

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool {
	return ErrorClassOf(err) == ErrorClassAuth
}

// IsRateLimited reports whether err is a quota-exhaustion failure.
func IsRateLimited(err error) bool {
	return ErrorClassOf(err) == ErrorClassRateLimit
}

// IsMalformed reports whether err is a malformed-response failure.
func IsMalformed(err error) bool {
	return ErrorClassOf(err) == ErrorClassMalformed
}

// IsTransient reports whether err is a retryable network or server failure.
func IsTransient(err error) bool {
	return ErrorClassOf(err) == ErrorClassTransient
}

// shouldRetry determines if an error should be retried based on its classification.
func shouldRetry(errorClass ErrorClass) bool {
	switch errorClass {
	case ErrorClassTransient:
		// Timeouts, connection resets, 5xx: the next attempt may succeed
		return true
	case ErrorClassAuth, ErrorClassRateLimit, ErrorClassClient, ErrorClassMalformed:
		// Retrying reproduces the same failure (or burns quota)
		return false
	default:
		return false
	}
}
