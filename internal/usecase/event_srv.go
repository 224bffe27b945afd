package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"book-your-show/internal/data/entity"
	"book-your-show/internal/data/repository"
	"book-your-show/internal/dto/response"
	"book-your-show/internal/inventory"
	"book-your-show/pkg/cache"
)

type EventService interface {
	GetEvent(ctx context.Context, eventID string) (*response.EventResponse, error)
	GetSeats(ctx context.Context, eventID string) ([]response.SeatResponse, error)
}

type eventService struct {
	repo      *repository.Repository
	store     *inventory.Store
	seatCache *cache.SeatCache
	log       *zap.Logger

	now func() time.Time
}

func NewEventService(
	repo *repository.Repository,
	store *inventory.Store,
	seatCache *cache.SeatCache,
	log *zap.Logger,
) EventService {
	return &eventService{
		repo:      repo,
		store:     store,
		seatCache: seatCache,
		log:       log.With(zap.String("service", "event")),
		now:       time.Now,
	}
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*response.EventResponse, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", eventID, err)
	}

	event, err := s.repo.Event.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}

	return response.EventToResponse(event, s.now()), nil
}

// GetSeats serves the polling seat map. The Redis snapshot is a display
// hint; between polls it may be stale, and only the inventory store decides
// whether a hold succeeds.
func (s *eventService) GetSeats(ctx context.Context, eventID string) ([]response.SeatResponse, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", eventID, err)
	}

	if cached, err := s.seatCache.Get(ctx, id); err == nil && cached != nil {
		return toSeatResponses(cached), nil
	}

	seats, err := s.store.Snapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("snapshot seats: %w", err)
	}

	sort.Slice(seats, func(i, j int) bool {
		if seats[i].Section != seats[j].Section {
			return seats[i].Section < seats[j].Section
		}
		if seats[i].SeatRow != seats[j].SeatRow {
			return seats[i].SeatRow < seats[j].SeatRow
		}
		return seats[i].Label < seats[j].Label
	})

	s.seatCache.Set(ctx, id, seats)

	return toSeatResponses(seats), nil
}

func toSeatResponses(seats []*entity.Seat) []response.SeatResponse {
	out := make([]response.SeatResponse, len(seats))
	for i, seat := range seats {
		out[i] = response.SeatToResponse(seat)
	}
	return out
}
