// Package apperr provides the coded domain errors shared by the catalog and
// coupon cores. Handlers map codes to HTTP statuses in one place; defensive
// defaults (unknown sort keys, stale neighborhood slugs, out-of-range pages)
// are deliberately not errors and never reach this package.
package apperr

import (
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeValidation        Code = "VALIDATION"
	CodeTypeMismatch      Code = "TYPE_MISMATCH"
	CodeNotFound          Code = "NOT_FOUND"
	CodeForbidden         Code = "FORBIDDEN"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeExpired           Code = "EXPIRED"
	CodeSoldOut           Code = "SOLD_OUT"
	CodeAlreadyClaimed    Code = "ALREADY_CLAIMED"
	CodeInternal          Code = "INTERNAL"
)

// Error is a domain error with a code and an optional detail map for
// debuggability (e.g. the current and attempted status of a bad transition).
type Error struct {
	Code    Code
	Message string
	Detail  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors by code so callers can use errors.Is against the
// sentinel values below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// HTTPStatus returns the HTTP status a handler should respond with.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeValidation, CodeTypeMismatch:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeInvalidTransition, CodeExpired, CodeSoldOut, CodeAlreadyClaimed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Sentinels for errors.Is checks.
var (
	ErrValidation        = &Error{Code: CodeValidation}
	ErrTypeMismatch      = &Error{Code: CodeTypeMismatch}
	ErrNotFound          = &Error{Code: CodeNotFound}
	ErrForbidden         = &Error{Code: CodeForbidden}
	ErrInvalidTransition = &Error{Code: CodeInvalidTransition}
	ErrExpired           = &Error{Code: CodeExpired}
	ErrSoldOut           = &Error{Code: CodeSoldOut}
	ErrAlreadyClaimed    = &Error{Code: CodeAlreadyClaimed}
)

// Validation creates a validation error with a formatted message.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// TypeMismatch reports type-specific attributes supplied for the wrong
// listing type.
func TypeMismatch(format string, args ...interface{}) *Error {
	return &Error{Code: CodeTypeMismatch, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not-found error with a formatted message.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Forbidden creates a forbidden error with a formatted message.
func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Code: CodeForbidden, Message: fmt.Sprintf(format, args...)}
}

// InvalidTransition reports a status-graph violation carrying the current
// and attempted statuses.
func InvalidTransition(current, attempted string) *Error {
	return &Error{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition listing from %s to %s", current, attempted),
		Detail:  map[string]string{"current": current, "attempted": attempted},
	}
}

// Expired reports a coupon outside its validity window.
func Expired(msg string) *Error {
	return &Error{Code: CodeExpired, Message: msg}
}

// SoldOut reports a coupon whose usage cap has been reached.
func SoldOut(msg string) *Error {
	return &Error{Code: CodeSoldOut, Message: msg}
}

// AlreadyClaimed reports a repeated claim of the same coupon by the same user.
func AlreadyClaimed(msg string) *Error {
	return &Error{Code: CodeAlreadyClaimed, Message: msg}
}
