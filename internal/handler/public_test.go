package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/concert-ticket-booking/internal/booking"
	"github.com/iliyamo/concert-ticket-booking/internal/cache"
	"github.com/iliyamo/concert-ticket-booking/internal/model"
)

func newPublicHandler(t *testing.T) *PublicHandler {
	t.Helper()
	dir := booking.NewDirectory()
	venue := model.NewVenue("venue-1", "Arena", []*model.Seat{
		model.NewSeat("S1", model.SeatTypeRegular),
		model.NewSeat("S2", model.SeatTypeVIP),
	})
	dir.AddEvent(model.NewEventShow("ev-1", time.Now().Add(time.Hour), venue))
	return NewPublicHandler(dir, cache.NewSeatCache(nil, 0))
}

func doGet(t *testing.T, h echo.HandlerFunc, path string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	require.NoError(t, h(c))
	return rec
}

func TestListAndGetEvents(t *testing.T) {
	h := newPublicHandler(t)

	rec := doGet(t, h.ListEvents, "/v1/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "ev-1", list.Items[0]["id"])

	rec = doGet(t, h.GetEvent, "/v1/events/ev-1", map[string]string{"id": "ev-1"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doGet(t, h.GetEvent, "/v1/events/nope", map[string]string{"id": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetEventSeats(t *testing.T) {
	h := newPublicHandler(t)

	rec := doGet(t, h.GetEventSeats, "/v1/events/ev-1/seats", map[string]string{"id": "ev-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		EventID string     `json:"event_id"`
		Items   []seatView `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ev-1", resp.EventID)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "S1", resp.Items[0].ID, "seats come back in layout order")
	assert.Equal(t, string(model.SeatAvailable), resp.Items[0].Status)
	assert.Equal(t, string(model.SeatTypeVIP), resp.Items[1].Type)

	rec = doGet(t, h.GetEventSeats, "/v1/events/nope/seats", map[string]string{"id": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
