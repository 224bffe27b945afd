package entity

import (
	"github.com/google/uuid"
)

type IntentStatus string

const (
	IntentCreated   IntentStatus = "created"
	IntentPending   IntentStatus = "pending"
	IntentSucceeded IntentStatus = "succeeded"
	IntentFailed    IntentStatus = "failed"
)

// PaymentIntent tracks one attempt to collect payment for a reservation.
// A reservation may accumulate several failed intents, but at most one may
// be pending at a time.
type PaymentIntent struct {
	Base
	ReservationID uuid.UUID    `db:"reservation_id"`
	ProviderRef   string       `db:"provider_ref"`
	Amount        float64      `db:"amount"`
	Status        IntentStatus `db:"status"`
	Attempt       int          `db:"attempt"`
}
