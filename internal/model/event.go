package model

import "time"

// EventShow is a scheduled performance at a venue.  The venue reference
// is shared and read-mostly after setup: admin operations build it once
// and the booking engine only resolves seats through it.
type EventShow struct {
	ID       string
	StartsAt time.Time
	Venue    *Venue
}

// NewEventShow pairs an event identifier and start time with its venue.
func NewEventShow(id string, startsAt time.Time, venue *Venue) *EventShow {
	return &EventShow{ID: id, StartsAt: startsAt, Venue: venue}
}
