// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketBookedEvent is published when a booking commits.  It contains
// enough information for downstream consumers to notify the user or
// feed analytics without querying the service.
type TicketBookedEvent struct {
	TicketID   string   `json:"ticket_id"`
	UserID     string   `json:"user_id"`
	EventID    string   `json:"event_id"`
	SeatIDs    []string `json:"seat_ids"`
	TotalPrice int64    `json:"total_price"`
	BookedAt   string   `json:"booked_at"`
}

// TicketCancelledEvent is published when a booked ticket is cancelled
// and its seats return to the pool.
type TicketCancelledEvent struct {
	TicketID    string   `json:"ticket_id"`
	UserID      string   `json:"user_id"`
	EventID     string   `json:"event_id"`
	SeatIDs     []string `json:"seat_ids"`
	CancelledAt string   `json:"cancelled_at"`
}
