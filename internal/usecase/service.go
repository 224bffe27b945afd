package usecase

import (
	"go.uber.org/zap"

	"book-your-show/internal/data/repository"
	"book-your-show/internal/inventory"
	"book-your-show/pkg/cache"
	"book-your-show/pkg/queue"
	"book-your-show/pkg/utils"
)

type Service struct {
	Event       EventService
	Reservation ReservationService
	Payment     PaymentService
}

func NewService(
	repo *repository.Repository,
	store *inventory.Store,
	seatCache *cache.SeatCache,
	publisher queue.Publisher,
	provider PaymentProvider,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	locks := newReservationLocks()
	reservation := NewReservationService(repo, store, seatCache, publisher, config, locks, log)
	return &Service{
		Event:       NewEventService(repo, store, seatCache, log),
		Reservation: reservation,
		Payment:     NewPaymentService(repo, reservation, provider, config, locks, log),
	}
}
