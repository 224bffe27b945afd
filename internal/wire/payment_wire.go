package wire

import (
	"github.com/go-chi/chi/v5"

	"book-your-show/internal/adaptor"
)

func wirePayment(r chi.Router, paymentHandler *adaptor.PaymentHandler) {
	// POST /api/payments/callback - Provider webhook (succeeded/failed)
	r.Post("/api/payments/callback", paymentHandler.Callback)
}
