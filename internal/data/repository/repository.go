package repository

import (
	"go.uber.org/zap"

	"book-your-show/pkg/database"
)

// Repository groups all persistence access for wiring.
type Repository struct {
	Event       EventRepository
	Seat        SeatRepository
	Reservation ReservationRepository
	Intent      IntentRepository
	Ticket      TicketRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Event:       NewEventRepository(db, log),
		Seat:        NewSeatRepository(db, log),
		Reservation: NewReservationRepository(db, log),
		Intent:      NewIntentRepository(db, log),
		Ticket:      NewTicketRepository(db, log),
	}
}
