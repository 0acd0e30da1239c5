package booking

import (
	"fmt"
	"sort"
	"sync"

	"github.com/iliyamo/concert-ticket-booking/internal/model"
)

// Directory is the thread-safe registry of events and issued tickets.
// Admin operations add and remove events outside of the
// concurrency-critical path; the engine and read-side handlers look
// entries up concurrently with those mutations.  A single RWMutex over
// both maps is enough here since admin mutation is rare and lookups
// are cheap.
type Directory struct {
	mu      sync.RWMutex
	events  map[string]*model.EventShow
	tickets map[string]*model.Ticket
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{
		events:  make(map[string]*model.EventShow),
		tickets: make(map[string]*model.Ticket),
	}
}

// AddEvent registers an event.  Re-adding an existing ID replaces the
// entry, matching the semantics of a plain map put.
func (d *Directory) AddEvent(ev *model.EventShow) {
	d.mu.Lock()
	d.events[ev.ID] = ev
	d.mu.Unlock()
}

// RemoveEvent drops the event with the given ID.  Tickets already
// issued for it remain readable.
func (d *Directory) RemoveEvent(eventID string) {
	d.mu.Lock()
	delete(d.events, eventID)
	d.mu.Unlock()
}

// Event resolves an event by ID.  The error wraps ErrNotFound so
// callers can classify it.
func (d *Directory) Event(eventID string) (*model.EventShow, error) {
	d.mu.RLock()
	ev, ok := d.events[eventID]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}
	return ev, nil
}

// Events lists all registered events sorted by ID for stable output.
func (d *Directory) Events() []*model.EventShow {
	d.mu.RLock()
	out := make([]*model.EventShow, 0, len(d.events))
	for _, ev := range d.events {
		out = append(out, ev)
	}
	d.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddTicket registers an issued ticket.  The engine calls this while
// still holding the seat locks so that no observer can see a BOOKED
// ticket whose seats are not yet BOOKED.
func (d *Directory) AddTicket(t *model.Ticket) {
	d.mu.Lock()
	d.tickets[t.ID] = t
	d.mu.Unlock()
}

// Ticket resolves a ticket by ID.  The error wraps ErrNotFound.
func (d *Directory) Ticket(ticketID string) (*model.Ticket, error) {
	d.mu.RLock()
	t, ok := d.tickets[ticketID]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: ticket %s", ErrNotFound, ticketID)
	}
	return t, nil
}

// TicketsByUser returns every ticket issued to the given user, newest
// first.
func (d *Directory) TicketsByUser(userID string) []*model.Ticket {
	d.mu.RLock()
	out := make([]*model.Ticket, 0)
	for _, t := range d.tickets {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	d.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
