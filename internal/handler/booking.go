package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/concert-ticket-booking/internal/booking"
	"github.com/iliyamo/concert-ticket-booking/internal/cache"
	"github.com/iliyamo/concert-ticket-booking/internal/model"
	"github.com/iliyamo/concert-ticket-booking/internal/queue"
	queue_publisher "github.com/iliyamo/concert-ticket-booking/internal/service"
)

// BookingHandler drives the reservation engine on behalf of
// authenticated customers.  All methods assume that JWT authentication
// has already been performed by middleware and may return 401 when the
// user ID cannot be extracted from the context.
type BookingHandler struct {
	Engine    *booking.Engine
	Directory *booking.Directory
	Seats     *cache.SeatCache
	MaxHold   time.Duration
}

// NewBookingHandler constructs a BookingHandler.  Engine and directory
// must be non-nil; the seat cache may be nil.
func NewBookingHandler(engine *booking.Engine, directory *booking.Directory, seats *cache.SeatCache, maxHold time.Duration) *BookingHandler {
	if engine == nil || directory == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Engine: engine, Directory: directory, Seats: seats, MaxHold: maxHold}
}

type bookRequest struct {
	SeatIDs []string `json:"seat_ids"`
	HoldMs  int64    `json:"hold_ms,omitempty"`
}

// ticketResponse is the read model of a ticket exposed over HTTP.
type ticketResponse struct {
	ID         string   `json:"id"`
	UserID     string   `json:"user_id"`
	EventID    string   `json:"event_id"`
	SeatIDs    []string `json:"seat_ids"`
	TotalPrice int64    `json:"total_price"`
	Status     string   `json:"status"`
	CreatedAt  string   `json:"created_at"`
}

func toTicketResponse(t *model.Ticket) ticketResponse {
	return ticketResponse{
		ID:         t.ID,
		UserID:     t.UserID,
		EventID:    t.EventID,
		SeatIDs:    t.SeatIDs(),
		TotalPrice: t.TotalPrice,
		Status:     string(t.Status()),
		CreatedAt:  t.CreatedAt.Format(time.RFC3339),
	}
}

// Book handles POST /v1/events/:id/tickets.  The body carries the seat
// IDs to reserve and an optional hold_ms used to keep the seat locks
// held for a while before the availability re-check, which is how the
// contention scenarios are driven from the outside.  The hold is
// clamped to the configured maximum.
func (h *BookingHandler) Book(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID := c.Param("id")

	var body bookRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	hold := time.Duration(body.HoldMs) * time.Millisecond
	if hold < 0 {
		hold = 0
	}
	if h.MaxHold > 0 && hold > h.MaxHold {
		hold = h.MaxHold
	}

	ticket, err := h.Engine.BookWithHold(c.Request().Context(), userID, eventID, body.SeatIDs, hold)
	if err != nil {
		return bookingError(c, err)
	}

	h.Seats.Invalidate(c.Request().Context(), eventID)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.Publish(ctx, queue_publisher.QueueTicketBooked, queue.TicketBookedEvent{
			TicketID:   ticket.ID,
			UserID:     ticket.UserID,
			EventID:    ticket.EventID,
			SeatIDs:    ticket.SeatIDs(),
			TotalPrice: ticket.TotalPrice,
			BookedAt:   ticket.CreatedAt.Format(time.RFC3339),
		})
	}()

	return c.JSON(http.StatusCreated, toTicketResponse(ticket))
}

// Cancel handles DELETE /v1/tickets/:id.  Only the ticket's owner (or
// an admin) may cancel, and only BOOKED tickets are cancellable.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ticketID := c.Param("id")

	ticket, err := h.Directory.Ticket(ticketID)
	if err != nil {
		return bookingError(c, err)
	}
	if ticket.UserID != userID && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Engine.Cancel(c.Request().Context(), ticketID); err != nil {
		return bookingError(c, err)
	}

	h.Seats.Invalidate(c.Request().Context(), ticket.EventID)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.Publish(ctx, queue_publisher.QueueTicketCancelled, queue.TicketCancelledEvent{
			TicketID:    ticket.ID,
			UserID:      ticket.UserID,
			EventID:     ticket.EventID,
			SeatIDs:     ticket.SeatIDs(),
			CancelledAt: time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return c.NoContent(http.StatusNoContent)
}

// GetTicket handles GET /v1/tickets/:id.  Owners and admins only.
func (h *BookingHandler) GetTicket(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ticket, err := h.Directory.Ticket(c.Param("id"))
	if err != nil {
		return bookingError(c, err)
	}
	if ticket.UserID != userID && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toTicketResponse(ticket)})
}

// MyTickets handles GET /v1/my-tickets and lists the caller's tickets,
// newest first.
func (h *BookingHandler) MyTickets(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tickets := h.Directory.TicketsByUser(userID)
	items := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, toTicketResponse(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "ADMIN"
}

// bookingError maps the engine's error taxonomy onto HTTP responses.
// The wrapped message keeps the offending seat or ticket ID so callers
// can diagnose failures.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrSeatUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrPaymentFailed):
		return c.JSON(http.StatusPaymentRequired, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrCancelled):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
