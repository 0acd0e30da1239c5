package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/concert-ticket-booking/internal/model"
)

// Per-seat tier prices.  Unknown tiers fall back to the regular price.
const (
	priceRegular = 100
	pricePremium = 200
	priceVIP     = 500
)

// Fare returns the deterministic total price for a seat set: the sum of
// the seats' tier prices at the time of the call.
func Fare(seats []*model.Seat) int64 {
	var total int64
	for _, s := range seats {
		switch s.Type {
		case model.SeatTypePremium:
			total += pricePremium
		case model.SeatTypeVIP:
			total += priceVIP
		default:
			total += priceRegular
		}
	}
	return total
}

// Engine orchestrates bookings and cancellations over a shared seat
// pool.  Every seat-status transition happens while the engine holds
// that seat's lock from the registry, and every lock acquired during an
// operation is released exactly once on every exit path.  The engine is
// explicitly constructed with its collaborators so that tests can run
// isolated instances side by side.
type Engine struct {
	directory *Directory
	locks     *LockRegistry
	payment   PaymentProcessor
	log       *logrus.Entry
}

// NewEngine wires an engine.  All dependencies must be non-nil.
func NewEngine(directory *Directory, locks *LockRegistry, payment PaymentProcessor, log *logrus.Logger) *Engine {
	if directory == nil || locks == nil || payment == nil {
		panic("nil dependency passed to NewEngine")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{
		directory: directory,
		locks:     locks,
		payment:   payment,
		log:       log.WithField("component", "booking-engine"),
	}
}

// Book reserves the given seats of an event for a user and returns the
// issued ticket.  See book for the full sequence.
func (e *Engine) Book(ctx context.Context, userID, eventID string, seatIDs []string) (*model.Ticket, error) {
	return e.book(ctx, userID, eventID, seatIDs, 0)
}

// BookWithHold behaves exactly like Book but keeps all seat locks held
// for the given delay between acquisition and the availability
// re-check, modeling a slow downstream dependency.  It exists to
// exercise contention; the delay is an explicit parameter rather than a
// separate code path.
func (e *Engine) BookWithHold(ctx context.Context, userID, eventID string, seatIDs []string, hold time.Duration) (*model.Ticket, error) {
	return e.book(ctx, userID, eventID, seatIDs, hold)
}

// book runs one reservation attempt: validate, resolve, price, lock in
// canonical order, optionally dwell while locked, re-check
// availability, charge, commit, release.  The availability re-check
// deliberately happens after the hold delay; the at-most-one-winner
// guarantee depends on checking under the locks, not before them.
func (e *Engine) book(ctx context.Context, userID, eventID string, seatIDs []string, hold time.Duration) (*model.Ticket, error) {
	if err := validateBookInput(userID, eventID, seatIDs); err != nil {
		return nil, err
	}

	ev, err := e.directory.Event(eventID)
	if err != nil {
		return nil, err
	}
	seats, err := resolveSeats(ev.Venue, seatIDs)
	if err != nil {
		return nil, err
	}

	// The ticket exists before any lock is taken so that failures past
	// this point have a concrete record to report against.
	ticket := model.NewTicket(uuid.NewString(), userID, eventID, seats, Fare(seats), time.Now().UTC())

	held, err := e.locks.Acquire(ctx, eventID, seatIDs)
	if err != nil {
		ticket.SetStatus(model.TicketFailed)
		return nil, err
	}
	defer e.locks.Release(held)

	e.log.WithFields(logrus.Fields{
		"user":   userID,
		"event":  eventID,
		"seats":  strings.Join(held.SeatIDs(), ","),
		"ticket": ticket.ID,
	}).Debug("seat locks acquired")

	if hold > 0 {
		// Dwell while holding every lock.  Remain cancellable.
		select {
		case <-time.After(hold):
		case <-ctx.Done():
			ticket.SetStatus(model.TicketFailed)
			return nil, fmt.Errorf("%w: while holding seat locks: %v", ErrCancelled, ctx.Err())
		}
	}

	// Mandatory re-check under the locks: availability may have changed
	// between resolution and acquisition.
	for _, s := range seats {
		if s.Status() != model.SeatAvailable {
			ticket.SetStatus(model.TicketFailed)
			return nil, fmt.Errorf("%w: seat %s", ErrSeatUnavailable, s.ID)
		}
	}

	if err := e.payment.Charge(ctx, ticket); err != nil {
		if rErr := e.payment.Refund(ctx, ticket); rErr != nil {
			e.log.WithField("ticket", ticket.ID).Warnf("refund hook failed: %v", rErr)
		}
		ticket.SetStatus(model.TicketFailed)
		return nil, fmt.Errorf("%w: ticket %s: %v", ErrPaymentFailed, ticket.ID, err)
	}

	// Commit: seats, ticket status and directory registration all
	// happen while the locks are still held, so observers never see a
	// BOOKED ticket with non-BOOKED seats or vice versa.
	for _, s := range seats {
		s.SetStatus(model.SeatBooked)
	}
	ticket.SetStatus(model.TicketBooked)
	e.directory.AddTicket(ticket)

	e.log.WithFields(logrus.Fields{
		"user":   userID,
		"event":  eventID,
		"ticket": ticket.ID,
		"price":  ticket.TotalPrice,
	}).Info("booking committed")
	return ticket, nil
}

// Cancel returns a BOOKED ticket's seats to the pool and transitions
// the ticket to CANCELLED.  Only BOOKED tickets are cancellable; the
// status is re-checked under the seat locks so that two racing cancels
// cannot both succeed.
func (e *Engine) Cancel(ctx context.Context, ticketID string) error {
	if strings.TrimSpace(ticketID) == "" {
		return fmt.Errorf("%w: ticket ID must not be empty", ErrInvalidArgument)
	}
	ticket, err := e.directory.Ticket(ticketID)
	if err != nil {
		return err
	}
	if err := cancellableState(ticket); err != nil {
		return err
	}

	held, err := e.locks.Acquire(ctx, ticket.EventID, ticket.SeatIDs())
	if err != nil {
		return err
	}
	defer e.locks.Release(held)

	// Someone may have cancelled between the pre-check and lock
	// acquisition; decide again now that we are serialized.
	if err := cancellableState(ticket); err != nil {
		return err
	}

	for _, s := range ticket.Seats() {
		s.SetStatus(model.SeatAvailable)
	}
	ticket.SetStatus(model.TicketCancelled)

	e.log.WithFields(logrus.Fields{
		"ticket": ticket.ID,
		"event":  ticket.EventID,
	}).Info("booking cancelled")
	return nil
}

func cancellableState(t *model.Ticket) error {
	switch st := t.Status(); st {
	case model.TicketBooked:
		return nil
	case model.TicketCancelled:
		return fmt.Errorf("%w: ticket %s is already cancelled", ErrInvalidState, t.ID)
	default:
		return fmt.Errorf("%w: ticket %s is %s, only booked tickets can be cancelled", ErrInvalidState, t.ID, st)
	}
}

func validateBookInput(userID, eventID string, seatIDs []string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user ID must not be empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(eventID) == "" {
		return fmt.Errorf("%w: event ID must not be empty", ErrInvalidArgument)
	}
	if len(seatIDs) == 0 {
		return fmt.Errorf("%w: seat ID list must not be empty", ErrInvalidArgument)
	}
	for _, id := range seatIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: seat ID must not be empty", ErrInvalidArgument)
		}
	}
	return nil
}

// resolveSeats maps seat IDs onto the venue's seat objects.  Unknown
// IDs fail outright, and a deduplicated count mismatch guards against
// duplicate identifiers smuggling the same seat into a booking twice.
func resolveSeats(v *model.Venue, seatIDs []string) ([]*model.Seat, error) {
	seen := make(map[string]struct{}, len(seatIDs))
	seats := make([]*model.Seat, 0, len(seatIDs))
	for _, id := range seatIDs {
		s, ok := v.Seat(id)
		if !ok {
			return nil, fmt.Errorf("%w: seat %s in venue %s", ErrNotFound, id, v.ID)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		seats = append(seats, s)
	}
	if len(seats) != len(seatIDs) {
		return nil, fmt.Errorf("%w: seat list contains duplicates", ErrNotFound)
	}
	return seats, nil
}
