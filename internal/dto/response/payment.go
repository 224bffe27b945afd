package response

import (
	"time"

	"book-your-show/internal/data/entity"
)

type PaymentIntentResponse struct {
	ID            string    `json:"id"`
	ReservationID string    `json:"reservationId"`
	Reference     string    `json:"reference"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	Attempt       int       `json:"attempt"`
	CreatedAt     time.Time `json:"createdAt"`
}

func IntentToResponse(intent *entity.PaymentIntent) *PaymentIntentResponse {
	return &PaymentIntentResponse{
		ID:            intent.ID.String(),
		ReservationID: intent.ReservationID.String(),
		Reference:     intent.ProviderRef,
		Amount:        intent.Amount,
		Status:        string(intent.Status),
		Attempt:       intent.Attempt,
		CreatedAt:     intent.CreatedAt,
	}
}
