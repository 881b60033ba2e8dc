package errors

import (
	"fmt"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func IsNotFound(err error) bool {
	e, ok := err.(*ErrorWithStatusCode)
	return ok && e.StatusCode == http.StatusNotFound
}

func StatusCode(err error) int {
	if e, ok := err.(*ErrorWithStatusCode); ok {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// ValidationError carries field-level messages for malformed input.
// Handlers render it as a 422 with an "errors" object.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// DuplicateEmailError signals that registration lost the uniqueness race on
// the email column. Handlers render it like a failed validation of the email
// field, matching the response shape of the pre-insert format checks.
type DuplicateEmailError struct{}

func (e *DuplicateEmailError) Error() string {
	return "The email has already been taken."
}

// NeedsVerificationError is returned on login when the credentials are fine
// but the account has not confirmed its email address yet.
type NeedsVerificationError struct {
	Email string
}

func (e *NeedsVerificationError) Error() string {
	return "Please verify your email address first."
}
