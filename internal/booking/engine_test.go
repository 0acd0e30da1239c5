package booking

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/concert-ticket-booking/internal/model"
)

// stubPayment lets tests decide whether charges succeed and counts the
// calls to both sides of the contract.
type stubPayment struct {
	failCharge bool
	charges    int32
	refunds    int32
}

func (p *stubPayment) Charge(ctx context.Context, t *model.Ticket) error {
	atomic.AddInt32(&p.charges, 1)
	if p.failCharge {
		return errors.New("card declined")
	}
	return nil
}

func (p *stubPayment) Refund(ctx context.Context, t *model.Ticket) error {
	atomic.AddInt32(&p.refunds, 1)
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

// newTestEngine wires an isolated engine over a venue with the given
// seats and one event "ev-1".
func newTestEngine(t *testing.T, payment PaymentProcessor, seats ...*model.Seat) (*Engine, *Directory) {
	t.Helper()
	if payment == nil {
		payment = &stubPayment{}
	}
	dir := NewDirectory()
	venue := model.NewVenue("venue-1", "Arena", seats)
	dir.AddEvent(model.NewEventShow("ev-1", time.Now().Add(24*time.Hour), venue))
	return NewEngine(dir, NewLockRegistry(), payment, quietLogger()), dir
}

func mixedSeats() []*model.Seat {
	return []*model.Seat{
		model.NewSeat("S1", model.SeatTypeRegular),
		model.NewSeat("S2", model.SeatTypePremium),
		model.NewSeat("S3", model.SeatTypeVIP),
		model.NewSeat("S4", model.SeatTypeRegular),
	}
}

func TestBookSuccess(t *testing.T) {
	seats := mixedSeats()
	eng, dir := newTestEngine(t, nil, seats...)

	ticket, err := eng.Book(context.Background(), "user-1", "ev-1", []string{"S3", "S2"})
	require.NoError(t, err)

	assert.Equal(t, model.TicketBooked, ticket.Status())
	assert.Equal(t, int64(700), ticket.TotalPrice, "VIP + PREMIUM must price to 700")
	assert.Equal(t, "user-1", ticket.UserID)
	assert.NotEmpty(t, ticket.ID)

	for _, id := range []string{"S2", "S3"} {
		s, ok := dir.mustEvent(t, "ev-1").Venue.Seat(id)
		require.True(t, ok)
		assert.Equal(t, model.SeatBooked, s.Status())
	}
	s1, _ := dir.mustEvent(t, "ev-1").Venue.Seat("S1")
	assert.Equal(t, model.SeatAvailable, s1.Status(), "unrequested seats stay available")

	got, err := dir.Ticket(ticket.ID)
	require.NoError(t, err)
	assert.Same(t, ticket, got)
}

// mustEvent is a small test-side helper on Directory.
func (d *Directory) mustEvent(t *testing.T, id string) *model.EventShow {
	t.Helper()
	ev, err := d.Event(id)
	require.NoError(t, err)
	return ev
}

func TestBookPriceIsDeterministic(t *testing.T) {
	for _, order := range [][]string{{"S3", "S2"}, {"S2", "S3"}} {
		eng, _ := newTestEngine(t, nil, mixedSeats()...)
		ticket, err := eng.Book(context.Background(), "user-1", "ev-1", order)
		require.NoError(t, err)
		assert.Equal(t, int64(700), ticket.TotalPrice)
	}
}

func TestFareUnknownTierDefaultsToRegular(t *testing.T) {
	seats := []*model.Seat{
		model.NewSeat("B1", model.SeatType("BALCONY")),
		model.NewSeat("S3", model.SeatTypeVIP),
	}
	assert.Equal(t, int64(600), Fare(seats))
}

func TestBookValidation(t *testing.T) {
	eng, _ := newTestEngine(t, nil, mixedSeats()...)

	cases := []struct {
		name    string
		userID  string
		eventID string
		seatIDs []string
	}{
		{"empty user", "", "ev-1", []string{"S1"}},
		{"blank user", "   ", "ev-1", []string{"S1"}},
		{"empty event", "user-1", "", []string{"S1"}},
		{"no seats", "user-1", "ev-1", nil},
		{"blank seat id", "user-1", "ev-1", []string{"S1", " "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := eng.Book(context.Background(), tc.userID, tc.eventID, tc.seatIDs)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestBookNotFound(t *testing.T) {
	eng, _ := newTestEngine(t, nil, mixedSeats()...)

	_, err := eng.Book(context.Background(), "user-1", "no-such-event", []string{"S1"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = eng.Book(context.Background(), "user-1", "ev-1", []string{"S1", "S99"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = eng.Book(context.Background(), "user-1", "ev-1", []string{"S1", "S1"})
	assert.ErrorIs(t, err, ErrNotFound, "duplicate seat IDs must not book the same seat twice")
}

func TestBookSeatUnavailable(t *testing.T) {
	eng, _ := newTestEngine(t, nil, mixedSeats()...)

	_, err := eng.Book(context.Background(), "user-1", "ev-1", []string{"S1", "S2"})
	require.NoError(t, err)

	_, err = eng.Book(context.Background(), "user-2", "ev-1", []string{"S2", "S3"})
	assert.ErrorIs(t, err, ErrSeatUnavailable)
}

func TestPaymentFailureRunsCompensation(t *testing.T) {
	payment := &stubPayment{failCharge: true}
	eng, dir := newTestEngine(t, payment, mixedSeats()...)

	_, err := eng.Book(context.Background(), "user-1", "ev-1", []string{"S1", "S2"})
	require.ErrorIs(t, err, ErrPaymentFailed)

	assert.Equal(t, int32(1), atomic.LoadInt32(&payment.refunds), "refund hook must run on payment failure")
	for _, id := range []string{"S1", "S2"} {
		s, _ := dir.mustEvent(t, "ev-1").Venue.Seat(id)
		assert.Equal(t, model.SeatAvailable, s.Status(), "failed payment must not commit seats")
	}
	assert.Empty(t, dir.TicketsByUser("user-1"), "failed tickets are not registered")

	// Seats remain bookable afterwards: the locks were released.
	payment.failCharge = false
	_, err = eng.Book(context.Background(), "user-1", "ev-1", []string{"S1", "S2"})
	assert.NoError(t, err)
}

func TestConcurrentOverlapExactlyOneWinnerPerSeat(t *testing.T) {
	eng, _ := newTestEngine(t, nil, mixedSeats()...)

	const bookers = 16
	target := []string{"S1", "S2", "S3"}

	var wins, unavailable int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < bookers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, err := eng.Book(context.Background(), "user", "ev-1", target)
			switch {
			case err == nil:
				atomic.AddInt32(&wins, 1)
			case errors.Is(err, ErrSeatUnavailable):
				atomic.AddInt32(&unavailable, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins, "at most one concurrent booking succeeds per seat set")
	assert.Equal(t, int32(bookers-1), unavailable)
}

func TestConcurrentDisjointSeatsAllSucceed(t *testing.T) {
	eng, _ := newTestEngine(t, nil, mixedSeats()...)

	sets := [][]string{{"S1"}, {"S2"}, {"S3"}, {"S4"}}
	var wg sync.WaitGroup
	errs := make([]error, len(sets))
	for i, ids := range sets {
		wg.Add(1)
		go func(i int, ids []string) {
			defer wg.Done()
			_, errs[i] = eng.Book(context.Background(), "user", "ev-1", ids)
		}(i, ids)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "disjoint booking %d", i)
	}
}

func TestHoldDelayRace(t *testing.T) {
	eng, dir := newTestEngine(t, nil, mixedSeats()...)
	target := []string{"S1", "S2"}

	type result struct {
		ticket *model.Ticket
		err    error
	}
	holderCh := make(chan result, 1)
	racerCh := make(chan result, 1)

	go func() {
		tk, err := eng.BookWithHold(context.Background(), "holder-user", "ev-1", target, 300*time.Millisecond)
		holderCh <- result{tk, err}
	}()
	go func() {
		// Give the holder a head start so it owns the locks first.
		time.Sleep(100 * time.Millisecond)
		tk, err := eng.Book(context.Background(), "racer-user", "ev-1", target)
		racerCh <- result{tk, err}
	}()

	holder := <-holderCh
	racer := <-racerCh

	require.NoError(t, holder.err, "the delayed booker commits both seats")
	assert.Equal(t, model.TicketBooked, holder.ticket.Status())
	assert.ErrorIs(t, racer.err, ErrSeatUnavailable, "the racer loses once the locks are released")

	for _, id := range target {
		s, _ := dir.mustEvent(t, "ev-1").Venue.Seat(id)
		assert.Equal(t, model.SeatBooked, s.Status())
	}
}

func TestBookCancelledWhileWaitingForLocks(t *testing.T) {
	eng, _ := newTestEngine(t, nil, mixedSeats()...)

	// Occupy S1's lock directly so the booking blocks.
	held, err := eng.locks.Acquire(context.Background(), "ev-1", []string{"S1"})
	require.NoError(t, err)
	defer eng.locks.Release(held)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = eng.Book(ctx, "user-1", "ev-1", []string{"S1"})
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestCancelFlow(t *testing.T) {
	eng, dir := newTestEngine(t, nil, mixedSeats()...)

	ticket, err := eng.Book(context.Background(), "user-1", "ev-1", []string{"S1", "S2"})
	require.NoError(t, err)

	require.NoError(t, eng.Cancel(context.Background(), ticket.ID))
	assert.Equal(t, model.TicketCancelled, ticket.Status())
	for _, id := range []string{"S1", "S2"} {
		s, _ := dir.mustEvent(t, "ev-1").Venue.Seat(id)
		assert.Equal(t, model.SeatAvailable, s.Status(), "cancel returns seats to the pool")
	}

	err = eng.Cancel(context.Background(), ticket.ID)
	assert.ErrorIs(t, err, ErrInvalidState, "cancelling twice must fail")

	assert.ErrorIs(t, eng.Cancel(context.Background(), "no-such-ticket"), ErrNotFound)
	assert.ErrorIs(t, eng.Cancel(context.Background(), "  "), ErrInvalidArgument)

	// Seats freed by the cancel are bookable again.
	_, err = eng.Book(context.Background(), "user-2", "ev-1", []string{"S1", "S2"})
	assert.NoError(t, err)
}

func TestConcurrentCancelsOnlyOneSucceeds(t *testing.T) {
	eng, _ := newTestEngine(t, nil, mixedSeats()...)

	ticket, err := eng.Book(context.Background(), "user-1", "ev-1", []string{"S1"})
	require.NoError(t, err)

	const cancellers = 8
	var ok, invalid int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < cancellers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			switch err := eng.Cancel(context.Background(), ticket.ID); {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.Is(err, ErrInvalidState):
				atomic.AddInt32(&invalid, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), ok, "exactly one cancel wins the race")
	assert.Equal(t, int32(cancellers-1), invalid)
}
