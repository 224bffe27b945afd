// Package worker hosts the expiry reaper: a background loop that returns
// lapsed holds to the available pool.
package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"book-your-show/internal/data/repository"
	"book-your-show/internal/usecase"
)

const sweepBatchSize = 100

// Reaper periodically expires held reservations whose expiry has passed.
// It goes through the same atomic transitions as client-driven operations,
// so duplicate reaper instances and commit races are resolved by the
// inventory store, not by this loop.
type Reaper struct {
	reservations repository.ReservationRepository
	intents      repository.IntentRepository
	service      usecase.ReservationService
	interval     time.Duration
	grace        time.Duration
	log          *zap.Logger

	now func() time.Time
}

func NewReaper(
	reservations repository.ReservationRepository,
	intents repository.IntentRepository,
	service usecase.ReservationService,
	interval time.Duration,
	grace time.Duration,
	log *zap.Logger,
) *Reaper {
	return &Reaper{
		reservations: reservations,
		intents:      intents,
		service:      service,
		interval:     interval,
		grace:        grace,
		log:          log.With(zap.String("worker", "reaper")),
		now:          time.Now,
	}
}

func (r *Reaper) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info("Expiry reaper started", zap.Duration("interval", r.interval))

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Expiry reaper stopped")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep expires every lapsed hold it can claim. A reservation with a
// pending payment intent gets a grace window past its expiry rather than
// an abrupt release, to avoid racing a just-completing payment.
func (r *Reaper) Sweep(ctx context.Context) {
	now := r.now()

	expired, err := r.reservations.FindExpiredHeld(ctx, now, sweepBatchSize)
	if err != nil {
		r.log.Error("Failed to list expired reservations", zap.Error(err))
		return
	}
	if len(expired) == 0 {
		return
	}

	released := 0
	skipped := 0
	for _, reservation := range expired {
		select {
		case <-ctx.Done():
			r.log.Info("Sweep interrupted")
			return
		default:
		}

		pending, err := r.intents.FindPendingByReservationID(ctx, reservation.ID)
		if err != nil {
			r.log.Error("Failed to check pending intent",
				zap.Error(err),
				zap.String("reservation_id", reservation.ID.String()),
			)
			continue
		}
		if pending != nil && now.Before(reservation.ExpiresAt.Add(r.grace)) {
			skipped++
			continue
		}

		err = r.service.Expire(ctx, reservation.ID)
		switch {
		case err == nil:
			released++
		case errors.Is(err, usecase.ErrInvalidState):
			// A commit or cancel won the race; nothing to do.
			skipped++
		default:
			r.log.Error("Failed to expire reservation",
				zap.Error(err),
				zap.String("reservation_id", reservation.ID.String()),
			)
		}
	}

	r.log.Info("Expiry sweep completed",
		zap.Int("found", len(expired)),
		zap.Int("released", released),
		zap.Int("skipped", skipped),
	)
}
