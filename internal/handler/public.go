package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/concert-ticket-booking/internal/booking"
	"github.com/iliyamo/concert-ticket-booking/internal/cache"
)

// PublicHandler exposes unauthenticated browse endpoints: the event
// catalogue and per-event seat availability.  The seat map is the hot
// read path during an on-sale, so it is served from the Redis cache
// when possible.
type PublicHandler struct {
	Directory *booking.Directory
	Seats     *cache.SeatCache
}

// NewPublicHandler constructs a PublicHandler.  The seat cache may be
// nil, in which case every request reads the directory.
func NewPublicHandler(directory *booking.Directory, seats *cache.SeatCache) *PublicHandler {
	if directory == nil {
		panic("nil directory passed to NewPublicHandler")
	}
	return &PublicHandler{Directory: directory, Seats: seats}
}

// ListEvents handles GET /v1/events.
func (h *PublicHandler) ListEvents(c echo.Context) error {
	events := h.Directory.Events()
	items := make([]echo.Map, 0, len(events))
	for _, ev := range events {
		items = append(items, echo.Map{
			"id":        ev.ID,
			"starts_at": ev.StartsAt.Format(time.RFC3339),
			"venue_id":  ev.Venue.ID,
			"location":  ev.Venue.Location,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetEvent handles GET /v1/events/:id.
func (h *PublicHandler) GetEvent(c echo.Context) error {
	ev, err := h.Directory.Event(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":        ev.ID,
		"starts_at": ev.StartsAt.Format(time.RFC3339),
		"venue_id":  ev.Venue.ID,
		"location":  ev.Venue.Location,
		"seats":     len(ev.Venue.Seats()),
	})
}

type seatView struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// GetEventSeats handles GET /v1/events/:id/seats and returns the
// venue's seats in layout order with their current availability.
// Status reads are not linearized with in-flight bookings; a seat map
// is a snapshot, not a reservation.
func (h *PublicHandler) GetEventSeats(c echo.Context) error {
	eventID := c.Param("id")
	ctx := c.Request().Context()

	if payload, ok := h.Seats.Get(ctx, eventID); ok {
		return c.JSONBlob(http.StatusOK, payload)
	}

	ev, err := h.Directory.Event(eventID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	seats := ev.Venue.Seats()
	items := make([]seatView, 0, len(seats))
	for _, s := range seats {
		items = append(items, seatView{ID: s.ID, Type: string(s.Type), Status: string(s.Status())})
	}

	payload, err := json.Marshal(echo.Map{"event_id": eventID, "items": items})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to render seat map"})
	}
	h.Seats.Set(ctx, eventID, payload)
	return c.JSONBlob(http.StatusOK, payload)
}
