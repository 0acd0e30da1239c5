// Package repository holds the in-memory stores backing the HTTP
// surface. These sentinel values allow handlers to distinguish
// between different failure scenarios. For example, ErrForbidden
// indicates that the current user is not authorized to perform an
// operation on a resource owned by someone else.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrUserNotFound is returned when no account matches the given
// email or ID.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned when registration is attempted with an
// email that already has an account. Handlers should translate this
// into an HTTP 409 response.
var ErrEmailTaken = errors.New("email already registered")
