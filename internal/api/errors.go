package api

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes backend and transport failures.
type ErrorCode string

const (
	// CodeNetwork indicates a transport-level failure (connection refused,
	// DNS failure, closed socket). No HTTP status is available.
	CodeNetwork ErrorCode = "NETWORK"

	// CodeBadRequest maps HTTP 400.
	CodeBadRequest ErrorCode = "BAD_REQUEST"

	// CodeUnauthorized maps HTTP 401.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// CodeForbidden maps HTTP 403.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// CodeNotFound maps HTTP 404.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeTimeout maps HTTP 408.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeConflict maps HTTP 409.
	CodeConflict ErrorCode = "CONFLICT"

	// CodeRateLimited maps HTTP 429.
	CodeRateLimited ErrorCode = "RATE_LIMITED"

	// CodeServer maps any 5xx status.
	CodeServer ErrorCode = "SERVER"
)

// Error is a typed backend failure.
//
// Errors carry a code for programmatic handling, a human-readable message
// for the store error fields, and the originating operation for logs.
// Stores surface Message to the UI layer; they never re-throw.
type Error struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Message is a human-readable description safe to show to an operator.
	Message string

	// Status is the HTTP status, or 0 for transport failures.
	Status int

	// Op names the request, e.g. "GET /books".
	Op string

	// Err is the underlying transport error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying transport error for errors.Is chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf extracts the ErrorCode from an error chain.
// Returns "" when the error is not an api.Error.
func CodeOf(err error) ErrorCode {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// IsUnauthorized reports whether the error is an HTTP 401 failure.
// Uses errors.As to handle wrapped errors.
func IsUnauthorized(err error) bool {
	return CodeOf(err) == CodeUnauthorized
}

// IsNotFound reports whether the error is an HTTP 404 failure.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// isRetryable reports whether a failed attempt is worth repeating.
// Transport errors and transient statuses (408, 429, 5xx) qualify;
// definitive client errors (400-404, 409) never do.
func isRetryable(err error) bool {
	switch CodeOf(err) {
	case CodeNetwork, CodeTimeout, CodeRateLimited, CodeServer:
		return true
	}
	return false
}

// codeForStatus maps an HTTP status to an ErrorCode.
func codeForStatus(status int) ErrorCode {
	switch status {
	case 400:
		return CodeBadRequest
	case 401:
		return CodeUnauthorized
	case 403:
		return CodeForbidden
	case 404:
		return CodeNotFound
	case 408:
		return CodeTimeout
	case 409:
		return CodeConflict
	case 429:
		return CodeRateLimited
	}
	if status >= 500 {
		return CodeServer
	}
	return CodeBadRequest
}

// messageForStatus renders the operator-facing message for an HTTP status.
func messageForStatus(status int) string {
	switch status {
	case 400:
		return "Bad Request: invalid data provided"
	case 401:
		return "Unauthorized: invalid name or email"
	case 403:
		return "Forbidden: insufficient permissions"
	case 404:
		return "Not Found: the requested resource does not exist"
	case 408:
		return "Request Timeout: the server is not responding"
	case 409:
		return "Conflict: the operation is not allowed in the current state"
	case 429:
		return "Too Many Requests: please wait before trying again"
	}
	if status >= 500 {
		return "Server Error: please try again later"
	}
	return fmt.Sprintf("Unexpected response: HTTP %d", status)
}

// statusError builds a typed error from a non-2xx response.
func statusError(op string, status int) *Error {
	return &Error{
		Code:    codeForStatus(status),
		Message: messageForStatus(status),
		Status:  status,
		Op:      op,
	}
}

// transportError builds a typed error from a failed transport attempt.
func transportError(op string, err error) *Error {
	return &Error{
		Code:    CodeNetwork,
		Message: fmt.Sprintf("Client Error: %v", err),
		Op:      op,
		Err:     err,
	}
}
