// Package apperr defines the error taxonomy surfaced to API callers.
// Every failure a handler reports is one of the five types below; the
// mapping to an HTTP status happens exactly once, in Status.
package apperr

import (
	"errors"
	"net/http"
)

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports an absent report, alert, user or notification.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError reports a uniqueness clash, such as a case already
// taken by another officer or a duplicate account email.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// AuthorizationError reports a role mismatch or missing identity.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// ServerError wraps an unexpected failure, typically from storage.
type ServerError struct {
	Message string
	Cause   error
}

func (e *ServerError) Error() string { return e.Message }
func (e *ServerError) Unwrap() error { return e.Cause }

func Validation(msg string, fields ...string) error {
	return &ValidationError{Message: msg, Fields: fields}
}

func NotFound(msg string) error { return &NotFoundError{Message: msg} }

func Conflict(msg string) error { return &ConflictError{Message: msg} }

func Forbidden(msg string) error { return &AuthorizationError{Message: msg} }

// Internal wraps err as a ServerError unless it already belongs to the
// taxonomy, in which case it passes through unchanged.
func Internal(msg string, err error) error {
	var v *ValidationError
	var n *NotFoundError
	var c *ConflictError
	var a *AuthorizationError
	if errors.As(err, &v) || errors.As(err, &n) || errors.As(err, &c) || errors.As(err, &a) {
		return err
	}
	return &ServerError{Message: msg, Cause: err}
}

// Status maps a taxonomy member to its transport status code.
func Status(err error) int {
	var v *ValidationError
	if errors.As(err, &v) {
		return http.StatusBadRequest
	}
	var n *NotFoundError
	if errors.As(err, &n) {
		return http.StatusNotFound
	}
	var c *ConflictError
	if errors.As(err, &c) {
		return http.StatusConflict
	}
	var a *AuthorizationError
	if errors.As(err, &a) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
