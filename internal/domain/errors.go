package domain

import (
	"errors"
	"net/http"
)

// Error is a failure meant to reach the client with its HTTP status.
// Cause stays server side; only Message is sent.
type Error struct {
	Message string
	Code    int
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Unauthorized(msg string) *Error {
	return &Error{Message: msg, Code: http.StatusUnauthorized}
}

func Forbidden(msg string) *Error {
	return &Error{Message: msg, Code: http.StatusForbidden}
}

func BadData(msg string) *Error {
	return &Error{Message: msg, Code: http.StatusBadRequest}
}

// BadInput is BadData that keeps the underlying decode failure for the logs.
func BadInput(msg string, cause error) *Error {
	return &Error{Message: msg, Code: http.StatusBadRequest, Cause: cause}
}

func NotFound(msg string) *Error {
	return &Error{Message: msg, Code: http.StatusNotFound}
}

// StatusOf returns the status carried by err, or 400 when err is not a domain error.
func StatusOf(err error) int {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return http.StatusBadRequest
}
