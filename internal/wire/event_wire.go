package wire

import (
	"github.com/go-chi/chi/v5"

	"book-your-show/internal/adaptor"
)

func wireEvent(r chi.Router, eventHandler *adaptor.EventHandler) {
	// GET /api/events/{id} - Event details with pricing catalog
	r.Get("/api/events/{id}", eventHandler.GetEvent)

	// GET /api/events/{id}/seats - Current seat map snapshot
	r.Get("/api/events/{id}/seats", eventHandler.GetSeats)
}
