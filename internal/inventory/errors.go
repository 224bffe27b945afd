package inventory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrSeatUnavailable signals a lost hold race. Recoverable: the caller
	// re-selects seats.
	ErrSeatUnavailable = errors.New("seat unavailable")

	// ErrConsistency signals a broken transition invariant (e.g. committing
	// a seat that is not held by the committing reservation). It indicates a
	// locking bug and must never be swallowed.
	ErrConsistency = errors.New("seat state consistency violation")

	ErrSeatNotFound  = errors.New("seat not found")
	ErrEventNotFound = errors.New("event not found")
)

// UnavailableError names the seats that blocked a hold so the caller can
// re-select around them.
type UnavailableError struct {
	SeatIDs []uuid.UUID
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%d seat(s) unavailable: %v", len(e.SeatIDs), e.SeatIDs)
}

func (e *UnavailableError) Unwrap() error {
	return ErrSeatUnavailable
}
