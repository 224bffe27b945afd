package entity

import "github.com/google/uuid"

type SeatState string

const (
	SeatAvailable SeatState = "available"
	SeatHeld      SeatState = "held"
	SeatBooked    SeatState = "booked"

	// Administrative states. Seats in these states never transition
	// through the reservation protocol.
	SeatBroken  SeatState = "broken"
	SeatAisle   SeatState = "aisle"
	SeatBlocked SeatState = "blocked"
)

// Reservable reports whether the state participates in the hold protocol.
func (s SeatState) Reservable() bool {
	switch s {
	case SeatAvailable, SeatHeld, SeatBooked:
		return true
	}
	return false
}

type Seat struct {
	Base
	EventID    uuid.UUID `db:"event_id"`
	Label      string    `db:"label"`    // A1, A2, B1, etc.
	SeatRow    string    `db:"seat_row"` // A, B, C, etc.
	Section    string    `db:"section"`
	SeatType   string    `db:"seat_type"`   // standard, vip
	TicketType string    `db:"ticket_type"` // catalog name, empty when none
	BasePrice  float64   `db:"base_price"`  // 0 means "use event default price"
	State      SeatState `db:"state"`
}
