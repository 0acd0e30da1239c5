package model

import (
	"sync"
	"time"
)

// TicketStatus tracks a reservation attempt through its lifecycle.
// Valid transitions are PENDING -> BOOKED -> CANCELLED, or
// PENDING -> FAILED when an attempt errors out.  Tickets are never
// deleted, only transitioned.
type TicketStatus string

// Ticket lifecycle states.
const (
	TicketPending   TicketStatus = "PENDING"
	TicketBooked    TicketStatus = "BOOKED"
	TicketCancelled TicketStatus = "CANCELLED"
	TicketFailed    TicketStatus = "FAILED"
)

// Ticket records a reservation attempt for one or more seats of an
// event.  Every field except the status is immutable after
// construction: the seat list is a snapshot taken at booking time and
// TotalPrice is the sum of the seats' tier prices at that moment.
type Ticket struct {
	ID         string
	UserID     string
	EventID    string
	TotalPrice int64
	CreatedAt  time.Time

	seats []*Seat

	mu     sync.RWMutex
	status TicketStatus
}

// NewTicket builds a PENDING ticket.  The seats slice is copied so
// later mutation of the caller's slice cannot alter the snapshot.
func NewTicket(id, userID, eventID string, seats []*Seat, totalPrice int64, createdAt time.Time) *Ticket {
	snapshot := make([]*Seat, len(seats))
	copy(snapshot, seats)
	return &Ticket{
		ID:         id,
		UserID:     userID,
		EventID:    eventID,
		TotalPrice: totalPrice,
		CreatedAt:  createdAt,
		seats:      snapshot,
		status:     TicketPending,
	}
}

// Seats returns the booked seat snapshot.  The returned slice is a
// copy; the seats themselves are shared with the venue.
func (t *Ticket) Seats() []*Seat {
	out := make([]*Seat, len(t.seats))
	copy(out, t.seats)
	return out
}

// SeatIDs returns the identifiers of the booked seats in snapshot order.
func (t *Ticket) SeatIDs() []string {
	ids := make([]string, len(t.seats))
	for i, s := range t.seats {
		ids[i] = s.ID
	}
	return ids
}

// Status returns the ticket's current lifecycle state.
func (t *Ticket) Status() TicketStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// SetStatus transitions the ticket.  The engine is the only writer.
func (t *Ticket) SetStatus(st TicketStatus) {
	t.mu.Lock()
	t.status = st
	t.mu.Unlock()
}
