// internal/app/system/errs/errs.go

// Package errs defines the application error taxonomy and the
// classification helpers the retry and transport layers key off of.
//
// The taxonomy matters because different classes get different handling:
// rate-limited failures are retried on a longer schedule and never count
// against a retry budget, transient network failures are retried with
// backoff, validation failures never reach the remote layer at all, and
// authentication failures fail fast with no retry.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationRequired means an operation needed a signed-in
	// session and none existed. Never retried.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrTokenRefreshFailed means the auth token could not be refreshed.
	ErrTokenRefreshFailed = errors.New("failed to refresh authentication token")

	// ErrProfileNotFound means the faculty profile document does not exist
	// (or was deleted out from under a live subscription).
	ErrProfileNotFound = errors.New("profile not found")

	// ErrRateLimited marks a rate-limited remote failure. Non-fatal:
	// retried after a longer delay without consuming retry budget.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrTransientNetwork marks a failure worth retrying with backoff.
	ErrTransientNetwork = errors.New("transient network error")
)

// UploadCause distinguishes the user-facing flavors of an upload failure.
type UploadCause string

const (
	UploadUnauthorized UploadCause = "unauthorized"
	UploadCancelled    UploadCause = "cancelled"
	UploadUnknown      UploadCause = "unknown"
)

// UploadError wraps a blob-store failure with a user-presentable cause.
type UploadError struct {
	Cause UploadCause
	Err   error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload failed (%s): %v", e.Cause, e.Err)
	}
	return fmt.Sprintf("upload failed (%s)", e.Cause)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Message returns the user-facing message for an upload failure.
func (e *UploadError) Message() string {
	switch e.Cause {
	case UploadUnauthorized:
		return "You are not authorized to upload this file."
	case UploadCancelled:
		return "The upload was cancelled."
	default:
		return "The upload failed. Please try again."
	}
}

// ValidationError reports a required or malformed field. Validation
// failures are surfaced inline and the write is never attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsRateLimited reports whether err is (or wraps) a rate-limited failure.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsTransient reports whether err is (or wraps) a retryable transient
// failure. Rate-limited errors are not transient in this sense; they get
// their own schedule.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransientNetwork)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
