// Package booking implements the concurrent seat-reservation core: a
// per-seat lock registry with canonical acquisition order, a
// thread-safe directory of events and tickets, and the engine that
// drives booking and cancellation without ever double-booking a seat
// or leaving a lock held.
package booking

import "errors"

// Sentinel errors returned by the engine.  Callers distinguish failure
// classes with errors.Is; the concrete error usually wraps one of these
// together with the offending seat or ticket identifier.  Handlers
// translate them into HTTP status codes.
var (
	// ErrInvalidArgument signals malformed or missing input.  It is
	// detected before any lock is taken.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound signals an unknown event, seat or ticket identifier.
	ErrNotFound = errors.New("not found")

	// ErrSeatUnavailable signals that a requested seat was already
	// BOOKED once the locks were held, i.e. the caller lost the race.
	ErrSeatUnavailable = errors.New("seat unavailable")

	// ErrPaymentFailed signals that the payment step rejected the
	// charge.  The compensation hook has already run when this is
	// returned.
	ErrPaymentFailed = errors.New("payment failed")

	// ErrInvalidState signals a cancellation attempt on a ticket that
	// is not currently BOOKED.
	ErrInvalidState = errors.New("invalid ticket state")

	// ErrCancelled signals that the operation was aborted while
	// waiting for a seat lock.  All partially acquired locks have been
	// released.
	ErrCancelled = errors.New("operation cancelled")
)
