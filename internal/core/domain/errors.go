package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned for any upstream 401. It is handled
	// globally: the offending session is invalidated and the caller is sent
	// back to the login entry point. Callers never inspect the 401 body.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials covers a rejected login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionNotFound means no usable session exists for the presented ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrShapeMismatch marks an upstream collection payload that matches none
	// of the known response shapes. It is absorbed into an empty collection
	// plus a load-error flag, never surfaced to end users.
	ErrShapeMismatch = errors.New("unexpected response shape")

	// ErrNotFound means the addressed entity does not exist locally.
	ErrNotFound = errors.New("not found")
)

// RequestError is an upstream response with a non-2xx status other than 401.
// Message carries the server-provided error text when present.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
}

// NetworkError means the request never produced an upstream response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("upstream unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
