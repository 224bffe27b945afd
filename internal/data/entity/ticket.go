package entity

import (
	"github.com/google/uuid"
)

// Ticket is issued exactly once per seat when a reservation commits.
// Tickets are immutable after creation.
type Ticket struct {
	BaseSimple
	ReservationID uuid.UUID    `db:"reservation_id"`
	SeatID        uuid.UUID    `db:"seat_id"`
	Occupant      OccupantType `db:"occupant"`
	Price         float64      `db:"price"`
}
