package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"book-your-show/internal/data/entity"
	"book-your-show/internal/data/repository"
	"book-your-show/internal/dto/request"
	"book-your-show/internal/dto/response"
	"book-your-show/pkg/utils"
)

type PaymentService interface {
	CreateIntent(ctx context.Context, reservationID string, req *request.CreatePaymentIntentRequest) (*response.PaymentIntentResponse, error)
	HandleCallback(ctx context.Context, req *request.PaymentCallbackRequest) error
}

type paymentService struct {
	repo         *repository.Repository
	reservations ReservationService
	provider     PaymentProvider
	retryLimit   int
	log          *zap.Logger

	// Shared with the reservation service; see reservationLocks.
	locks *reservationLocks

	now func() time.Time
}

func NewPaymentService(
	repo *repository.Repository,
	reservations ReservationService,
	provider PaymentProvider,
	config *utils.Config,
	locks *reservationLocks,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		repo:         repo,
		reservations: reservations,
		provider:     provider,
		retryLimit:   config.Engine.PaymentRetryLimit,
		locks:        locks,
		log:          log.With(zap.String("service", "payment")),
		now:          time.Now,
	}
}

func (s *paymentService) CreateIntent(ctx context.Context, reservationID string, req *request.CreatePaymentIntentRequest) (*response.PaymentIntentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create intent validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation ID format %s: %w", reservationID, err)
	}

	// The pending check and the intent insert must not interleave across
	// concurrent requests, or two pending intents could both be persisted.
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

	// Checked against the expiry timestamp, not just the status field; the
	// reaper may not have swept yet.
	if reservation.ExpiredAt(s.now()) {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, ErrReservationExpired)
	}

	pending, err := s.repo.Intent.FindPendingByReservationID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("check pending intent: %w", err)
	}
	if pending != nil {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, ErrIntentPending)
	}

	attempts, err := s.repo.Intent.CountByReservationID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count intent attempts: %w", err)
	}
	if attempts >= s.retryLimit {
		return nil, fmt.Errorf("reservation %s exhausted %d payment attempts: %w",
			reservationID, attempts, ErrInvalidState)
	}

	// Provider I/O runs under the reservation lock but outside any
	// inventory lock. The amount comes from the recorded summary, which
	// stays frozen from here until the intent resolves.
	providerIntent, err := s.provider.CreateIntent(ctx, ProviderIntentRequest{
		ReservationID: reservationID,
		Amount:        reservation.Amount.Total,
		Payer: PayerInfo{
			CardNumber:  req.CardNumber,
			ExpiryDate:  req.ExpiryDate,
			CVV:         req.CVV,
			PhoneNumber: req.PhoneNumber,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open provider intent: %w", err)
	}

	now := s.now()
	intent := &entity.PaymentIntent{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ReservationID: id,
		ProviderRef:   providerIntent.Reference,
		Amount:        reservation.Amount.Total,
		Status:        entity.IntentPending,
		Attempt:       attempts + 1,
	}
	if err := s.repo.Intent.Create(ctx, intent); err != nil {
		return nil, fmt.Errorf("persist intent: %w", err)
	}

	s.log.Info("Payment intent created",
		zap.String("intent_id", intent.ID.String()),
		zap.String("reservation_id", reservationID),
		zap.String("provider_ref", intent.ProviderRef),
		zap.Float64("amount", intent.Amount),
		zap.Int("attempt", intent.Attempt),
	)

	return response.IntentToResponse(intent), nil
}

func (s *paymentService) HandleCallback(ctx context.Context, req *request.PaymentCallbackRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Payment callback validation failed", zap.Any("errors", errs))
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	intent, err := s.repo.Intent.FindByProviderRef(ctx, req.Reference)
	if err != nil {
		return fmt.Errorf("load intent: %w", err)
	}
	if intent == nil {
		return fmt.Errorf("intent reference %s: %w", req.Reference, ErrNotFound)
	}

	// Terminal intents absorb duplicate and out-of-order deliveries.
	if intent.Status == entity.IntentSucceeded || intent.Status == entity.IntentFailed {
		s.log.Info("Duplicate provider callback ignored",
			zap.String("provider_ref", req.Reference),
			zap.String("status", string(intent.Status)),
		)
		return nil
	}

	switch req.Outcome {
	case "succeeded":
		if err := s.reservations.Commit(ctx, intent.ReservationID, intent.ProviderRef); err != nil {
			// The hold may already be gone (swept past the grace window,
			// cancelled). The intent must still reach a terminal status or
			// the provider redelivers forever; the charge is flagged for
			// reconciliation.
			if errors.Is(err, ErrInvalidState) {
				s.log.Error("Payment succeeded for a released reservation",
					zap.String("provider_ref", req.Reference),
					zap.String("reservation_id", intent.ReservationID.String()),
					zap.Error(err),
				)
				if err := s.repo.Intent.UpdateStatus(ctx, intent.ID, entity.IntentFailed); err != nil {
					return fmt.Errorf("persist intent outcome: %w", err)
				}
				return nil
			}
			return fmt.Errorf("commit reservation %s: %w", intent.ReservationID.String(), err)
		}
		if err := s.repo.Intent.UpdateStatus(ctx, intent.ID, entity.IntentSucceeded); err != nil {
			return fmt.Errorf("persist intent outcome: %w", err)
		}

		s.log.Info("Payment succeeded",
			zap.String("provider_ref", req.Reference),
			zap.String("reservation_id", intent.ReservationID.String()),
		)
		return nil

	case "failed":
		if err := s.repo.Intent.UpdateStatus(ctx, intent.ID, entity.IntentFailed); err != nil {
			return fmt.Errorf("persist intent outcome: %w", err)
		}

		// Below the retry limit the reservation stays held so the buyer can
		// try again before expiry; at the limit the seats release early.
		if intent.Attempt >= s.retryLimit {
			s.log.Warn("Payment retry limit reached, failing reservation",
				zap.String("reservation_id", intent.ReservationID.String()),
				zap.Int("attempts", intent.Attempt),
			)
			if err := s.reservations.Fail(ctx, intent.ReservationID); err != nil {
				return fmt.Errorf("fail reservation %s: %w", intent.ReservationID.String(), err)
			}
			return nil
		}

		s.log.Info("Payment failed, reservation still held for retry",
			zap.String("provider_ref", req.Reference),
			zap.String("reservation_id", intent.ReservationID.String()),
			zap.Int("attempt", intent.Attempt),
		)
		return nil

	default:
		return fmt.Errorf("unknown callback outcome %q", req.Outcome)
	}
}
