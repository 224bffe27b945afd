package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"book-your-show/internal/data/entity"
	"book-your-show/internal/data/repository"
	"book-your-show/internal/dto/request"
	"book-your-show/internal/dto/response"
	"book-your-show/pkg/cache"
)

func newEventService(e *testEnv) EventService {
	repo := &repository.Repository{
		Event:       e.events,
		Seat:        e.seats,
		Reservation: e.reservations,
		Intent:      e.intents,
		Ticket:      e.tickets,
	}
	log := zap.NewNop()
	service := NewEventService(repo, e.store, cache.NewSeatCache(nil, 0, log), log).(*eventService)
	service.now = func() time.Time { return e.now }
	return service
}

func TestGetEvent(t *testing.T) {
	e := newTestEnv()
	events := newEventService(e)

	resp, err := events.GetEvent(context.Background(), e.eventID.String())
	require.NoError(t, err)
	assert.Equal(t, "Main Hall Premiere", resp.Name)
	assert.True(t, resp.SaleActive)
	require.Len(t, resp.TicketTypes, 1)
	assert.Equal(t, "VIP", resp.TicketTypes[0].Name)

	_, err = events.GetEvent(context.Background(), "b2f9d2f8-0000-4000-8000-000000000009")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetSeatsReflectsTransitions(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	events := newEventService(e)

	_, err := e.service.Create(ctx, &request.CreateReservationRequest{
		EventID: e.eventID.String(),
		SeatIDs: []string{e.seatID("A1")},
	})
	require.NoError(t, err)

	seats, err := events.GetSeats(ctx, e.eventID.String())
	require.NoError(t, err)
	require.Len(t, seats, 5)

	// Sorted by section, row, label; administrative states pass through.
	byLabel := make(map[string]response.SeatResponse, len(seats))
	for i := 1; i < len(seats); i++ {
		assert.LessOrEqual(t, seats[i-1].Label, seats[i].Label)
	}
	for _, seat := range seats {
		byLabel[seat.Label] = seat
	}
	assert.Equal(t, string(entity.SeatHeld), byLabel["A1"].State)
	assert.Equal(t, string(entity.SeatAvailable), byLabel["A2"].State)
	assert.Equal(t, string(entity.SeatBroken), byLabel["X1"].State)

	// Held seats are part of the hold protocol; broken ones are fixtures.
	assert.False(t, byLabel["A1"].Administrative)
	assert.False(t, byLabel["A2"].Administrative)
	assert.True(t, byLabel["X1"].Administrative)
}
