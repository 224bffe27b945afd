// Package inventory owns the authoritative seat-state table. Every seat
// transition in the system goes through this store; no other component may
// flip a seat's state directly.
package inventory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"book-your-show/internal/data/entity"
)

// SeatSource loads the seat catalog for an event. Satisfied by
// repository.SeatRepository.
type SeatSource interface {
	FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.Seat, error)
}

type seatSlot struct {
	seat   *entity.Seat
	heldBy uuid.UUID // reservation holding the seat; uuid.Nil when not held
}

// eventTable serializes all transitions for one event. Multi-seat holds are
// atomic because the whole critical section runs under the event mutex, so
// no per-seat lock ordering is needed.
type eventTable struct {
	mu    sync.Mutex
	seats map[uuid.UUID]*seatSlot
}

type Store struct {
	source SeatSource
	log    *zap.Logger

	mu     sync.Mutex
	events map[uuid.UUID]*eventTable
}

func NewStore(source SeatSource, log *zap.Logger) *Store {
	return &Store{
		source: source,
		log:    log.With(zap.String("component", "inventory")),
		events: make(map[uuid.UUID]*eventTable),
	}
}

// table returns the seat table for an event, loading it from the seat
// source on first touch.
func (s *Store) table(ctx context.Context, eventID uuid.UUID) (*eventTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.events[eventID]; ok {
		return t, nil
	}

	seats, err := s.source.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load seats for event %s: %w", eventID.String(), err)
	}
	if len(seats) == 0 {
		return nil, fmt.Errorf("event %s: %w", eventID.String(), ErrEventNotFound)
	}

	t := &eventTable{seats: make(map[uuid.UUID]*seatSlot, len(seats))}
	for _, seat := range seats {
		t.seats[seat.ID] = &seatSlot{seat: seat}
	}
	s.events[eventID] = t

	s.log.Info("Seat table loaded",
		zap.String("event_id", eventID.String()),
		zap.Int("seats", len(seats)),
	)
	return t, nil
}

// TryHold atomically transitions every seat in the set from available to
// held for the given reservation. All-or-nothing: if any seat is missing,
// administrative, or not available, no seat changes state and the
// conflicting seats are reported via UnavailableError.
func (s *Store) TryHold(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID, reservationID uuid.UUID) error {
	t, err := s.table(ctx, eventID)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var conflicts []uuid.UUID
	for _, id := range seatIDs {
		slot, ok := t.seats[id]
		if !ok {
			return fmt.Errorf("seat %s: %w", id.String(), ErrSeatNotFound)
		}
		if slot.seat.State != entity.SeatAvailable {
			conflicts = append(conflicts, id)
		}
	}
	if len(conflicts) > 0 {
		return &UnavailableError{SeatIDs: conflicts}
	}

	for _, id := range seatIDs {
		slot := t.seats[id]
		slot.seat.State = entity.SeatHeld
		slot.heldBy = reservationID
	}
	return nil
}

// Commit transitions held seats to booked. Every seat must currently be
// held by the committing reservation; anything else is a protocol violation
// surfaced as ErrConsistency, and no seat is flipped.
func (s *Store) Commit(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID, reservationID uuid.UUID) error {
	t, err := s.table(ctx, eventID)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, id := range seatIDs {
		slot, ok := t.seats[id]
		if !ok {
			return fmt.Errorf("seat %s: %w", id.String(), ErrSeatNotFound)
		}
		if slot.seat.State != entity.SeatHeld || slot.heldBy != reservationID {
			s.log.Error("Commit attempted on seat not held by reservation",
				zap.String("seat_id", id.String()),
				zap.String("reservation_id", reservationID.String()),
				zap.String("state", string(slot.seat.State)),
				zap.String("held_by", slot.heldBy.String()),
			)
			return fmt.Errorf("commit seat %s for reservation %s: %w",
				id.String(), reservationID.String(), ErrConsistency)
		}
	}

	for _, id := range seatIDs {
		slot := t.seats[id]
		slot.seat.State = entity.SeatBooked
		slot.heldBy = uuid.Nil
	}
	return nil
}

// Release returns seats held by the given reservation to available. It is
// idempotent: seats already released, re-held by another reservation, or
// booked are left untouched, since the reaper and an explicit cancel may
// race to release the same reservation.
func (s *Store) Release(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID, reservationID uuid.UUID) error {
	t, err := s.table(ctx, eventID)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, id := range seatIDs {
		slot, ok := t.seats[id]
		if !ok {
			continue
		}
		if slot.seat.State == entity.SeatHeld && slot.heldBy == reservationID {
			slot.seat.State = entity.SeatAvailable
			slot.heldBy = uuid.Nil
		}
	}
	return nil
}

// Get returns the current state of one seat.
func (s *Store) Get(ctx context.Context, eventID uuid.UUID, seatID uuid.UUID) (entity.SeatState, error) {
	t, err := s.table(ctx, eventID)
	if err != nil {
		return "", err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	slot, ok := t.seats[seatID]
	if !ok {
		return "", fmt.Errorf("seat %s: %w", seatID.String(), ErrSeatNotFound)
	}
	return slot.seat.State, nil
}

// Snapshot returns a copy of every seat in the event. The copy is safe for
// callers to read after the lock is released; it is a point-in-time view
// and may be stale by the time it is consumed.
func (s *Store) Snapshot(ctx context.Context, eventID uuid.UUID) ([]*entity.Seat, error) {
	t, err := s.table(ctx, eventID)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	seats := make([]*entity.Seat, 0, len(t.seats))
	for _, slot := range t.seats {
		copied := *slot.seat
		seats = append(seats, &copied)
	}
	return seats, nil
}
