package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/concert-ticket-booking/internal/booking"
	"github.com/iliyamo/concert-ticket-booking/internal/model"
)

// AdminHandler exposes the event administration surface: creating an
// event together with its venue and seat layout, and removing events.
// These operations are sequential bookkeeping outside the
// concurrency-critical path; the directory makes them safe to run
// concurrently with in-flight bookings.
type AdminHandler struct {
	Directory *booking.Directory
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(directory *booking.Directory) *AdminHandler {
	if directory == nil {
		panic("nil directory passed to NewAdminHandler")
	}
	return &AdminHandler{Directory: directory}
}

type seatRequest struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type venueRequest struct {
	ID       string        `json:"id"`
	Location string        `json:"location"`
	Seats    []seatRequest `json:"seats"`
}

type createEventRequest struct {
	ID       string       `json:"id"`
	StartsAt string       `json:"starts_at"`
	Venue    venueRequest `json:"venue"`
}

// CreateEvent handles POST /v1/events.  The request carries the event
// together with its venue and ordered seat list; the booking core never
// creates seats itself.  Returns 201 with the registered event, 400 on
// malformed input and 409 when the event ID is already taken.
func (h *AdminHandler) CreateEvent(c echo.Context) error {
	var body createEventRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.ID) == "" || strings.TrimSpace(body.Venue.ID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event id and venue id are required"})
	}
	if len(body.Venue.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "venue must have at least one seat"})
	}
	startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}
	if _, err := h.Directory.Event(body.ID); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "event already exists"})
	}

	seats := make([]*model.Seat, 0, len(body.Venue.Seats))
	seen := make(map[string]struct{}, len(body.Venue.Seats))
	for _, sr := range body.Venue.Seats {
		id := strings.TrimSpace(sr.ID)
		if id == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat id must not be empty"})
		}
		if _, dup := seen[id]; dup {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate seat id: " + id})
		}
		seen[id] = struct{}{}
		seats = append(seats, model.NewSeat(id, model.SeatType(strings.ToUpper(sr.Type))))
	}

	venue := model.NewVenue(body.Venue.ID, body.Venue.Location, seats)
	ev := model.NewEventShow(body.ID, startsAt.UTC(), venue)
	h.Directory.AddEvent(ev)

	return c.JSON(http.StatusCreated, echo.Map{
		"id":        ev.ID,
		"starts_at": ev.StartsAt.Format(time.RFC3339),
		"venue_id":  venue.ID,
		"seats":     len(seats),
	})
}

// DeleteEvent handles DELETE /v1/events/:id.  Removing an unknown
// event yields 404; tickets already issued for the event stay readable.
func (h *AdminHandler) DeleteEvent(c echo.Context) error {
	eventID := c.Param("id")
	if _, err := h.Directory.Event(eventID); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	h.Directory.RemoveEvent(eventID)
	return c.NoContent(http.StatusNoContent)
}
