// Package v1 provides the dashboard's business logic for API version 1.
//
// Error Handling:
// This package defines sentinel errors for the failure classes the remote
// backend can produce. They should be wrapped with context using
// fmt.Errorf("%w") when returned from business logic methods, and checked in
// handlers with errors.Is:
//
//	switch {
//	case errors.Is(err, logicv1.ErrInvalidCredentials):
//	    // render the generic login failure message
//	case errors.Is(err, logicv1.ErrNotFound):
//	    // record vanished between list and action
//	default:
//	    // generic flash notification
//	}
package v1

import "errors"

// Sentinel errors for backend operations.
var (
	// ErrInvalidCredentials indicates the backend rejected the login.
	// Deliberately indistinguishable from a network failure at the UI:
	// both render the same generic message.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionMissing indicates a protected operation ran without a token.
	// The route guard normally makes this unreachable.
	ErrSessionMissing = errors.New("no session token")

	// ErrNotFound indicates the record does not exist on the backend.
	ErrNotFound = errors.New("record not found")

	// ErrValidation indicates the backend rejected the payload. The wrapped
	// chain carries the backend's detail message.
	ErrValidation = errors.New("validation failed")

	// ErrBackendUnavailable indicates a network-class failure: timeout,
	// refused connection, or a 5xx from the backend.
	ErrBackendUnavailable = errors.New("backend unavailable")
)
