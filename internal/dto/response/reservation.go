package response

import (
	"time"

	"book-your-show/internal/data/entity"
)

type ReservationResponse struct {
	ID               string               `json:"id"`
	EventID          string               `json:"eventId"`
	SeatIDs          []string             `json:"seatIds"`
	Status           string               `json:"status"`
	ExpiresAt        time.Time            `json:"expiresAt"`
	SecondsRemaining int                  `json:"secondsRemaining"`
	Assignments      map[string]string    `json:"assignments"`
	Amount           entity.AmountSummary `json:"amountSummary"`
	PaymentRef       string               `json:"paymentRef,omitempty"`
	CreatedAt        time.Time            `json:"createdAt"`
}

type TicketResponse struct {
	ID            string    `json:"id"`
	ReservationID string    `json:"reservationId"`
	SeatID        string    `json:"seatId"`
	Occupant      string    `json:"occupant"`
	Price         float64   `json:"price"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ReservationToResponse computes the remaining hold time from the
// authoritative expiry timestamp; the countdown is never stored.
func ReservationToResponse(reservation *entity.Reservation, now time.Time) *ReservationResponse {
	seatIDs := make([]string, len(reservation.SeatIDs))
	for i, id := range reservation.SeatIDs {
		seatIDs[i] = id.String()
	}

	assignments := make(map[string]string, len(reservation.Assignments))
	for seatID, occupant := range reservation.Assignments {
		assignments[seatID.String()] = string(occupant)
	}

	remaining := 0
	if reservation.Status == entity.ReservationHeld && now.Before(reservation.ExpiresAt) {
		remaining = int(reservation.ExpiresAt.Sub(now).Seconds())
	}

	return &ReservationResponse{
		ID:               reservation.ID.String(),
		EventID:          reservation.EventID.String(),
		SeatIDs:          seatIDs,
		Status:           string(reservation.Status),
		ExpiresAt:        reservation.ExpiresAt,
		SecondsRemaining: remaining,
		Assignments:      assignments,
		Amount:           reservation.Amount,
		PaymentRef:       reservation.PaymentRef,
		CreatedAt:        reservation.CreatedAt,
	}
}
