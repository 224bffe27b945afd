package adaptor

import (
	"go.uber.org/zap"

	"book-your-show/internal/usecase"
)

type Handler struct {
	Event       *EventHandler
	Reservation *ReservationHandler
	Payment     *PaymentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Event:       NewEventHandler(service.Event, log),
		Reservation: NewReservationHandler(service.Reservation, log),
		Payment:     NewPaymentHandler(service.Payment, log),
	}
}
