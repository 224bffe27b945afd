package wire

import (
	"github.com/go-chi/chi/v5"

	"book-your-show/internal/adaptor"
)

func wireReservation(
	r chi.Router,
	reservationHandler *adaptor.ReservationHandler,
	paymentHandler *adaptor.PaymentHandler,
) {
	r.Route("/api/reservations", func(r chi.Router) {
		// POST /api/reservations - Hold seats for a new reservation
		r.Post("/", reservationHandler.CreateReservation)

		// GET /api/reservations/{id} - Reservation with countdown
		r.Get("/{id}", reservationHandler.GetReservation)

		// PUT /api/reservations/{id}/assignments - Replace occupant assignments
		r.Put("/{id}/assignments", reservationHandler.UpdateAssignment)

		// DELETE /api/reservations/{id} - Cancel and release the hold
		r.Delete("/{id}", reservationHandler.CancelReservation)

		// POST /api/reservations/{id}/payment-intent - Start payment
		r.Post("/{id}/payment-intent", paymentHandler.CreateIntent)
	})
}
