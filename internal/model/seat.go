package model

import "sync"

// SeatType classifies a seat into a pricing tier.  The set of tiers is
// open ended; unknown values are priced as REGULAR by the booking
// engine.
type SeatType string

// Known seat tiers.
const (
	SeatTypeRegular SeatType = "REGULAR"
	SeatTypePremium SeatType = "PREMIUM"
	SeatTypeVIP     SeatType = "VIP"
)

// SeatStatus is the availability state of a seat.  A seat is either
// AVAILABLE or BOOKED; it is never observed in an intermediate state by
// callers that do not hold the seat's lock.
type SeatStatus string

// Seat availability states.
const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatBooked    SeatStatus = "BOOKED"
)

// Seat describes a single seat in a venue.  The ID and Type are fixed
// at construction; only Status changes over the seat's lifetime, and
// only the booking engine mutates it while holding that seat's lock.
// The status field is guarded by a small mutex so that read-side
// accessors (seat maps, ticket listings) never observe a torn value
// while a booking is in flight.  Seat identity is the ID alone.
type Seat struct {
	ID   string   // unique within the venue
	Type SeatType // pricing tier

	mu     sync.RWMutex
	status SeatStatus
}

// NewSeat returns an AVAILABLE seat with the given identifier and tier.
func NewSeat(id string, typ SeatType) *Seat {
	return &Seat{ID: id, Type: typ, status: SeatAvailable}
}

// Status returns the current availability state of the seat.
func (s *Seat) Status() SeatStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// SetStatus updates the availability state.  Callers must hold the
// seat's registry lock; the internal mutex only protects concurrent
// readers, it does not serialize bookings.
func (s *Seat) SetStatus(st SeatStatus) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}
