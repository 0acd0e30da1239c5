package model

// Venue is a physical location holding an ordered sequence of seats.
// Seats are created by admin operations when the venue is registered;
// the booking engine never creates or removes seats, it only flips
// their status.
type Venue struct {
	ID       string
	Location string

	seats []*Seat
	byID  map[string]*Seat
}

// NewVenue builds a venue from an ordered seat list.  Seat order is
// preserved for presentation; lookups go through an index keyed by
// seat ID.
func NewVenue(id, location string, seats []*Seat) *Venue {
	v := &Venue{
		ID:       id,
		Location: location,
		seats:    make([]*Seat, 0, len(seats)),
		byID:     make(map[string]*Seat, len(seats)),
	}
	for _, s := range seats {
		if s == nil {
			continue
		}
		v.seats = append(v.seats, s)
		v.byID[s.ID] = s
	}
	return v
}

// Seats returns the venue's seats in their original order.  The slice
// is a copy; the seats are shared.
func (v *Venue) Seats() []*Seat {
	out := make([]*Seat, len(v.seats))
	copy(out, v.seats)
	return out
}

// Seat returns the seat with the given ID, or false when the venue has
// no such seat.
func (v *Venue) Seat(id string) (*Seat, bool) {
	s, ok := v.byID[id]
	return s, ok
}
