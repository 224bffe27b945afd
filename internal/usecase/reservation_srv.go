package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"book-your-show/internal/data/entity"
	"book-your-show/internal/data/repository"
	"book-your-show/internal/dto/request"
	"book-your-show/internal/dto/response"
	"book-your-show/internal/inventory"
	"book-your-show/internal/pricing"
	"book-your-show/pkg/cache"
	"book-your-show/pkg/queue"
	"book-your-show/pkg/utils"
)

type ReservationService interface {
	Create(ctx context.Context, req *request.CreateReservationRequest) (*response.ReservationResponse, error)
	Get(ctx context.Context, reservationID string) (*response.ReservationResponse, error)
	UpdateAssignment(ctx context.Context, reservationID string, req *request.UpdateAssignmentRequest) (*response.ReservationResponse, error)
	Cancel(ctx context.Context, reservationID string) error

	// Internal transitions driven by the payment orchestrator and the
	// expiry reaper.
	Commit(ctx context.Context, reservationID uuid.UUID, paymentRef string) error
	Expire(ctx context.Context, reservationID uuid.UUID) error
	Fail(ctx context.Context, reservationID uuid.UUID) error
}

type reservationService struct {
	repo      *repository.Repository
	store     *inventory.Store
	seatCache *cache.SeatCache
	publisher queue.Publisher
	config    *utils.Config
	log       *zap.Logger

	// Serializes terminal transitions so a duplicate provider callback
	// racing itself resolves to the idempotent path instead of a
	// consistency error.
	transitionMu sync.Mutex

	// Shared with the payment service: assignment updates and intent
	// creation for the same reservation must not interleave, or the intent
	// amount could diverge from the recorded summary.
	locks *reservationLocks

	now func() time.Time
}

func NewReservationService(
	repo *repository.Repository,
	store *inventory.Store,
	seatCache *cache.SeatCache,
	publisher queue.Publisher,
	config *utils.Config,
	locks *reservationLocks,
	log *zap.Logger,
) ReservationService {
	return &reservationService{
		repo:      repo,
		store:     store,
		seatCache: seatCache,
		publisher: publisher,
		config:    config,
		locks:     locks,
		log:       log.With(zap.String("service", "reservation")),
		now:       time.Now,
	}
}

func (s *reservationService) Create(ctx context.Context, req *request.CreateReservationRequest) (*response.ReservationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create reservation validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", req.EventID, err)
	}

	seatIDs := make([]uuid.UUID, len(req.SeatIDs))
	seen := make(map[uuid.UUID]bool, len(req.SeatIDs))
	for i, seatIDStr := range req.SeatIDs {
		seatID, err := uuid.Parse(seatIDStr)
		if err != nil {
			return nil, fmt.Errorf("invalid seat ID format %s: %w", seatIDStr, err)
		}
		if seen[seatID] {
			return nil, fmt.Errorf("duplicate seat ID %s in request", seatIDStr)
		}
		seen[seatID] = true
		seatIDs[i] = seatID
	}

	event, err := s.repo.Event.FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %s: %w", req.EventID, ErrNotFound)
	}

	now := s.now()
	if !event.SaleActiveAt(now) {
		return nil, fmt.Errorf("event %s: %w", req.EventID, ErrSaleNotActive)
	}

	holdSeconds := req.HoldSeconds
	if holdSeconds <= 0 {
		holdSeconds = s.config.Engine.HoldSeconds
	}
	if holdSeconds > s.config.Engine.MaxHoldSeconds {
		holdSeconds = s.config.Engine.MaxHoldSeconds
	}

	reservationID := uuid.New()

	// All-or-nothing hold. On conflict the unavailable seats come back to
	// the caller for re-selection.
	if err := s.store.TryHold(ctx, eventID, seatIDs, reservationID); err != nil {
		if errors.Is(err, inventory.ErrSeatUnavailable) {
			s.log.Info("Hold race lost",
				zap.String("event_id", req.EventID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	seatsByID, err := s.seatsByID(ctx, eventID, seatIDs)
	if err != nil {
		s.store.Release(ctx, eventID, seatIDs, reservationID)
		return nil, err
	}

	assignments := make(map[uuid.UUID]entity.OccupantType, len(seatIDs))
	for _, seatID := range seatIDs {
		assignments[seatID] = entity.OccupantAdult
	}

	reservation := &entity.Reservation{
		Base: entity.Base{
			ID:        reservationID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		EventID:     eventID,
		SeatIDs:     seatIDs,
		ExpiresAt:   now.Add(time.Duration(holdSeconds) * time.Second),
		Assignments: assignments,
		Amount:      s.summarize(event, seatsByID, seatIDs, assignments),
		Status:      entity.ReservationHeld,
	}

	if err := s.repo.Reservation.Create(ctx, reservation); err != nil {
		// Roll the hold back; the seats must not stay stranded.
		s.store.Release(ctx, eventID, seatIDs, reservationID)
		return nil, fmt.Errorf("persist reservation: %w", err)
	}

	if err := s.repo.Seat.UpdateState(ctx, seatIDs, entity.SeatHeld); err != nil {
		s.log.Error("Failed to record held seat state", zap.Error(err))
		// Inventory already holds the seats; the durable copy lags.
	}
	s.seatCache.Invalidate(ctx, eventID)

	s.log.Info("Reservation created",
		zap.String("reservation_id", reservationID.String()),
		zap.String("event_id", req.EventID),
		zap.Int("seat_count", len(seatIDs)),
		zap.Time("expires_at", reservation.ExpiresAt),
		zap.Float64("total", reservation.Amount.Total),
	)

	return response.ReservationToResponse(reservation, now), nil
}

func (s *reservationService) Get(ctx context.Context, reservationID string) (*response.ReservationResponse, error) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation ID format %s: %w", reservationID, err)
	}

	reservation, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load reservation: %w", err)
	}
	if reservation == nil {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, ErrNotFound)
	}

	return response.ReservationToResponse(reservation, s.now()), nil
}

func (s *reservationService) UpdateAssignment(ctx context.Context, reservationID string, req *request.UpdateAssignmentRequest) (*response.ReservationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update assignment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation ID format %s: %w", reservationID, err)
	}

	s.locks.lock(id)
	defer s.locks.unlock(id)

	reservation, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load reservation: %w", err)
	}
	if reservation == nil {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, ErrNotFound)
	}

	if reservation.Status != entity.ReservationHeld {
		return nil, fmt.Errorf("reservation %s is %s: %w", reservationID, reservation.Status, ErrInvalidState)
	}

	now := s.now()
	if reservation.ExpiredAt(now) {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, ErrReservationExpired)
	}

	// Pricing is frozen once a payment intent is pending; the intent amount
	// was read from the recorded summary and must stay in sync.
	pending, err := s.repo.Intent.FindPendingByReservationID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("check pending intent: %w", err)
	}
	if pending != nil {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, ErrReservationLocked)
	}

	// Full replacement: every seat resets to adult, then the requested
	// entries apply. Seats omitted from the request are not merged over.
	assignments := make(map[uuid.UUID]entity.OccupantType, len(reservation.SeatIDs))
	for _, seatID := range reservation.SeatIDs {
		assignments[seatID] = entity.OccupantAdult
	}
	for seatIDStr, occupantStr := range req.Assignments {
		seatID, err := uuid.Parse(seatIDStr)
		if err != nil {
			return nil, fmt.Errorf("invalid seat ID format %s: %w", seatIDStr, err)
		}
		if _, ok := assignments[seatID]; !ok {
			return nil, fmt.Errorf("seat %s does not belong to reservation %s", seatIDStr, reservationID)
		}
		assignments[seatID] = entity.OccupantType(occupantStr)
	}

	event, err := s.repo.Event.FindByID(ctx, reservation.EventID)
	if err != nil {
		return nil, fmt.Errorf("load event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %s: %w", reservation.EventID.String(), ErrNotFound)
	}

	seatsByID, err := s.seatsByID(ctx, reservation.EventID, reservation.SeatIDs)
	if err != nil {
		return nil, err
	}

	reservation.Assignments = assignments
	reservation.Amount = s.summarize(event, seatsByID, reservation.SeatIDs, assignments)
	reservation.UpdatedAt = now

	if err := s.repo.Reservation.Update(ctx, reservation); err != nil {
		return nil, fmt.Errorf("persist assignment update: %w", err)
	}

	s.log.Info("Assignment updated",
		zap.String("reservation_id", reservationID),
		zap.Float64("total", reservation.Amount.Total),
	)

	return response.ReservationToResponse(reservation, now), nil
}

func (s *reservationService) Cancel(ctx context.Context, reservationID string) error {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return fmt.Errorf("invalid reservation ID format %s: %w", reservationID, err)
	}
	return s.release(ctx, id, entity.ReservationCancelled)
}

func (s *reservationService) Expire(ctx context.Context, reservationID uuid.UUID) error {
	return s.release(ctx, reservationID, entity.ReservationExpired)
}

func (s *reservationService) Fail(ctx context.Context, reservationID uuid.UUID) error {
	return s.release(ctx, reservationID, entity.ReservationFailed)
}

// release moves a held reservation to a terminal unpaid status and returns
// its seats to available. Releasing is idempotent at the inventory level,
// so the reaper and an explicit cancel may race harmlessly.
func (s *reservationService) release(ctx context.Context, reservationID uuid.UUID, status entity.ReservationStatus) error {
	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	reservation, err := s.repo.Reservation.FindByID(ctx, reservationID)
	if err != nil {
		return fmt.Errorf("load reservation: %w", err)
	}
	if reservation == nil {
		return fmt.Errorf("reservation %s: %w", reservationID.String(), ErrNotFound)
	}

	if reservation.Status.Terminal() {
		if reservation.Status == status {
			return nil
		}
		return fmt.Errorf("reservation %s is %s: %w", reservationID.String(), reservation.Status, ErrInvalidState)
	}

	if err := s.store.Release(ctx, reservation.EventID, reservation.SeatIDs, reservationID); err != nil {
		return fmt.Errorf("release seats: %w", err)
	}

	reservation.Status = status
	reservation.UpdatedAt = s.now()
	if err := s.repo.Reservation.Update(ctx, reservation); err != nil {
		return fmt.Errorf("persist release: %w", err)
	}

	if err := s.repo.Seat.UpdateState(ctx, reservation.SeatIDs, entity.SeatAvailable); err != nil {
		s.log.Error("Failed to record released seat state", zap.Error(err))
	}
	s.seatCache.Invalidate(ctx, reservation.EventID)

	s.log.Info("Reservation released",
		zap.String("reservation_id", reservationID.String()),
		zap.String("status", string(status)),
		zap.Int("seat_count", len(reservation.SeatIDs)),
	)
	return nil
}

func (s *reservationService) Commit(ctx context.Context, reservationID uuid.UUID, paymentRef string) error {
	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	reservation, err := s.repo.Reservation.FindByID(ctx, reservationID)
	if err != nil {
		return fmt.Errorf("load reservation: %w", err)
	}
	if reservation == nil {
		return fmt.Errorf("reservation %s: %w", reservationID.String(), ErrNotFound)
	}

	// Duplicate provider callbacks land here: already paid with the same
	// reference is success, and no second set of tickets is issued.
	if reservation.Status == entity.ReservationPaid {
		if reservation.PaymentRef == paymentRef {
			s.log.Info("Duplicate commit ignored",
				zap.String("reservation_id", reservationID.String()),
				zap.String("payment_ref", paymentRef),
			)
			return nil
		}
		return fmt.Errorf("reservation %s already paid with a different reference: %w",
			reservationID.String(), ErrInvalidState)
	}
	if reservation.Status != entity.ReservationHeld {
		return fmt.Errorf("reservation %s is %s: %w", reservationID.String(), reservation.Status, ErrInvalidState)
	}

	// The inventory store arbitrates the commit-vs-reaper race: booking
	// only succeeds while the seats are still held by this reservation.
	if err := s.store.Commit(ctx, reservation.EventID, reservation.SeatIDs, reservationID); err != nil {
		if errors.Is(err, inventory.ErrConsistency) {
			s.log.Error("Commit consistency violation",
				zap.String("reservation_id", reservationID.String()),
				zap.Error(err),
			)
		}
		return err
	}

	event, err := s.repo.Event.FindByID(ctx, reservation.EventID)
	if err != nil {
		return fmt.Errorf("load event: %w", err)
	}
	if event == nil {
		return fmt.Errorf("event %s: %w", reservation.EventID.String(), ErrNotFound)
	}
	seatsByID, err := s.seatsByID(ctx, reservation.EventID, reservation.SeatIDs)
	if err != nil {
		return err
	}

	now := s.now()
	tickets := make([]*entity.Ticket, len(reservation.SeatIDs))
	for i, seatID := range reservation.SeatIDs {
		occupant := reservation.Assignments[seatID]
		tickets[i] = &entity.Ticket{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			ReservationID: reservationID,
			SeatID:        seatID,
			Occupant:      occupant,
			Price:         pricing.PriceFor(seatsByID[seatID], occupant, event),
		}
	}
	if err := s.repo.Ticket.CreateBatch(ctx, tickets); err != nil {
		return fmt.Errorf("issue tickets: %w", err)
	}

	reservation.Status = entity.ReservationPaid
	reservation.PaymentRef = paymentRef
	reservation.UpdatedAt = now
	if err := s.repo.Reservation.Update(ctx, reservation); err != nil {
		return fmt.Errorf("persist commit: %w", err)
	}

	if err := s.repo.Seat.UpdateState(ctx, reservation.SeatIDs, entity.SeatBooked); err != nil {
		s.log.Error("Failed to record booked seat state", zap.Error(err))
	}
	s.seatCache.Invalidate(ctx, reservation.EventID)

	if s.publisher != nil {
		seatIDs := make([]string, len(reservation.SeatIDs))
		for i, id := range reservation.SeatIDs {
			seatIDs[i] = id.String()
		}
		if err := s.publisher.PublishSettled(ctx, queue.SettledEvent{
			ReservationID: reservationID.String(),
			EventID:       reservation.EventID.String(),
			SeatIDs:       seatIDs,
			PaymentRef:    paymentRef,
			Total:         reservation.Amount.Total,
			SettledAt:     now,
		}); err != nil {
			// Settlement already committed; the event is best-effort.
			s.log.Error("Failed to publish settled event", zap.Error(err))
		}
	}

	s.log.Info("Reservation committed",
		zap.String("reservation_id", reservationID.String()),
		zap.String("payment_ref", paymentRef),
		zap.Int("tickets", len(tickets)),
		zap.Float64("total", reservation.Amount.Total),
	)
	return nil
}

// seatsByID resolves seat entities from the inventory snapshot. The static
// attributes (ticket type, base price) are what pricing needs; state is
// ignored here.
func (s *reservationService) seatsByID(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) (map[uuid.UUID]*entity.Seat, error) {
	snapshot, err := s.store.Snapshot(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("snapshot seats: %w", err)
	}

	byID := make(map[uuid.UUID]*entity.Seat, len(snapshot))
	for _, seat := range snapshot {
		byID[seat.ID] = seat
	}
	for _, seatID := range seatIDs {
		if _, ok := byID[seatID]; !ok {
			return nil, fmt.Errorf("seat %s: %w", seatID.String(), ErrNotFound)
		}
	}
	return byID, nil
}

func (s *reservationService) summarize(
	event *entity.Event,
	seatsByID map[uuid.UUID]*entity.Seat,
	seatIDs []uuid.UUID,
	assignments map[uuid.UUID]entity.OccupantType,
) entity.AmountSummary {
	prices := make([]float64, len(seatIDs))
	for i, seatID := range seatIDs {
		prices[i] = pricing.PriceFor(seatsByID[seatID], assignments[seatID], event)
	}
	return pricing.Summarize(prices, event.Commission, event.Tax)
}
