package usecase

import (
	"errors"

	"book-your-show/internal/inventory"
)

// Error taxonomy. Unavailability, expiry and lock conflicts are ordinary
// outcomes the caller recovers from; consistency violations indicate a
// locking bug and are never swallowed.
var (
	ErrNotFound = errors.New("not found")

	// Hold race lost; the conflicting seats are attached via
	// inventory.UnavailableError. Caller re-selects.
	ErrSeatUnavailable = inventory.ErrSeatUnavailable

	// Operation attempted past the hold expiry. Caller starts over with a
	// new reservation.
	ErrReservationExpired = errors.New("reservation expired")

	// Pricing mutation attempted while a payment intent is pending.
	ErrReservationLocked = errors.New("reservation locked by pending payment")

	// A payment intent is already pending for this reservation.
	ErrIntentPending = errors.New("payment intent already pending")

	// Operation illegal for the reservation's current status.
	ErrInvalidState = errors.New("operation not allowed in current status")

	// Ticket sales are disabled or outside the sale window.
	ErrSaleNotActive = errors.New("ticket sales not active")

	// Transient provider failure; retryable.
	ErrPaymentProvider = errors.New("payment provider error")

	// Fatal transition invariant breach.
	ErrConsistency = inventory.ErrConsistency
)
