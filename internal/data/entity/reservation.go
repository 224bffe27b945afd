package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationHeld      ReservationStatus = "held"
	ReservationPaid      ReservationStatus = "paid"
	ReservationExpired   ReservationStatus = "expired"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationFailed    ReservationStatus = "failed"
)

// Terminal reports whether the status is absorbing. Only "held" admits
// further transitions.
func (s ReservationStatus) Terminal() bool {
	return s != ReservationHeld
}

type OccupantType string

const (
	OccupantAdult OccupantType = "adult"
	OccupantChild OccupantType = "child"
)

// AmountSummary is derived from the current assignment; it is recomputed
// from scratch on every change, never adjusted in place.
type AmountSummary struct {
	Subtotal   float64 `db:"subtotal" json:"subtotal"`
	Commission float64 `db:"commission" json:"commission"`
	Taxes      float64 `db:"taxes" json:"taxes"`
	Total      float64 `db:"total" json:"total"`
}

type Reservation struct {
	Base
	EventID     uuid.UUID                  `db:"event_id"`
	SeatIDs     []uuid.UUID                `db:"seat_ids"`
	ExpiresAt   time.Time                  `db:"expires_at"`
	Assignments map[uuid.UUID]OccupantType `db:"assignments"`
	Amount      AmountSummary              `db:"amount"`
	Status      ReservationStatus          `db:"status"`
	PaymentRef  string                     `db:"payment_ref"` // set when paid
}

// ExpiredAt reports whether the hold has lapsed at the given instant. The
// expiry timestamp is authoritative regardless of whether the reaper has
// swept yet.
func (r *Reservation) ExpiredAt(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
