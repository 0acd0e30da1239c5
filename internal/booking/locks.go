package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// lockKey identifies one seat of one event.  Lock instances are scoped
// to this pair so that the same seat in different events never
// contends.
type lockKey struct {
	eventID string
	seatID  string
}

// seatLock is a mutex that can be abandoned mid-wait.  A buffered
// channel of capacity one is used instead of sync.Mutex because
// acquisition has to remain selectable against ctx.Done().
type seatLock struct {
	key lockKey
	ch  chan struct{}
}

func newSeatLock(key lockKey) *seatLock {
	return &seatLock{key: key, ch: make(chan struct{}, 1)}
}

// LockRegistry hands out the mutual-exclusion lock for a given
// (event, seat) pair.  Locks are created lazily on first reference and
// retained for the lifetime of the process; seats are reused across
// bookings and cancellations so entries are never removed.  The
// LoadOrStore step guarantees that exactly one lock instance ever
// exists per pair even when two callers race on first access.
type LockRegistry struct {
	locks sync.Map // lockKey -> *seatLock
}

// NewLockRegistry returns an empty registry.
func NewLockRegistry() *LockRegistry {
	return &LockRegistry{}
}

func (r *LockRegistry) lockFor(eventID, seatID string) *seatLock {
	key := lockKey{eventID: eventID, seatID: seatID}
	if v, ok := r.locks.Load(key); ok {
		return v.(*seatLock)
	}
	v, _ := r.locks.LoadOrStore(key, newSeatLock(key))
	return v.(*seatLock)
}

// HeldLocks is the set of locks an operation currently holds, in
// acquisition order.  It is returned by Acquire and must be passed back
// to Release on every exit path.
type HeldLocks struct {
	locks []*seatLock
}

// SeatIDs reports which seats are covered, in acquisition order.
// Mostly useful for logging.
func (h *HeldLocks) SeatIDs() []string {
	if h == nil {
		return nil
	}
	ids := make([]string, len(h.locks))
	for i, l := range h.locks {
		ids[i] = l.key.seatID
	}
	return ids
}

// Acquire blocks until the locks for all requested seats of the event
// are held.  Seat IDs are first sorted lexicographically so that any
// two callers requesting overlapping sets attempt acquisition in the
// same relative order; with every caller locking in increasing
// identifier order no cyclic wait can form.  If ctx is cancelled while
// waiting, every lock acquired so far is released and the returned
// error wraps ErrCancelled.
func (r *LockRegistry) Acquire(ctx context.Context, eventID string, seatIDs []string) (*HeldLocks, error) {
	ordered := make([]string, len(seatIDs))
	copy(ordered, seatIDs)
	sort.Strings(ordered)

	held := &HeldLocks{locks: make([]*seatLock, 0, len(ordered))}
	for _, id := range ordered {
		l := r.lockFor(eventID, id)
		select {
		case l.ch <- struct{}{}:
			held.locks = append(held.locks, l)
		case <-ctx.Done():
			r.Release(held)
			return nil, fmt.Errorf("%w: while waiting for seat %s: %v", ErrCancelled, id, ctx.Err())
		}
	}
	return held, nil
}

// Release unlocks everything in held.  It touches only locks that were
// actually acquired, never blocks and never fails; it is the
// unconditional cleanup step and is safe to call with nil or an empty
// set.
func (r *LockRegistry) Release(held *HeldLocks) {
	if held == nil {
		return
	}
	for _, l := range held.locks {
		select {
		case <-l.ch:
		default:
			// not held by anyone; nothing to release
		}
	}
	held.locks = held.locks[:0]
}
