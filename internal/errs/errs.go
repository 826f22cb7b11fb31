// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package errs defines the API error taxonomy and the single place where
// errors are mapped to HTTP responses. Every handler-level failure becomes
// a typed Error; anything else is treated as internal and never leaks its
// cause to the client.
package errs

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Error is an API error carrying the HTTP status it maps to. The message
// is safe to show to clients; the cause (if any) is for logs only.
type Error struct {
	Status int
	msg    string
	cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.msg
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// New creates an Error with an explicit status code.
func New(status int, msg string) *Error {
	return &Error{Status: status, msg: msg}
}

// Authentication marks a missing or invalid credential (401).
func Authentication(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, msg: msg}
}

// Authorization marks an insufficient role or inactive account (403).
func Authorization(msg string) *Error {
	return &Error{Status: http.StatusForbidden, msg: msg}
}

// Validation marks bad input, dangling or circular references (400).
func Validation(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, msg: msg}
}

// Conflict marks a duplicate slug. The API reports conflicts as 400 so
// clients see one status class for all rejected writes.
func Conflict(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, msg: msg}
}

// NotFound marks a missing record (404).
func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, msg: msg}
}

// Internal wraps an unexpected failure (500). The cause is kept for
// logging; clients only ever see the generic message.
func Internal(cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, msg: "Internal server error", cause: cause}
}

// errorBody is the JSON envelope for every error response.
type errorBody struct {
	Error string `json:"error"`
}

// Write maps err to its HTTP response. Unexpected errors (anything that is
// not an *Error) are logged and reported as 500 without detail.
func Write(w http.ResponseWriter, err error) {
	apiErr := &Error{}
	if !errors.As(err, &apiErr) {
		apiErr = Internal(err)
	}

	if apiErr.Status >= http.StatusInternalServerError {
		slog.Error("internal error", "error", err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(apiErr.Status)
	if encErr := json.NewEncoder(w).Encode(errorBody{Error: apiErr.msg}); encErr != nil {
		slog.Error("write error response", "error", encErr)
	}
}
