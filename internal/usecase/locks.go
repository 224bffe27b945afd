package usecase

import (
	"sync"

	"github.com/google/uuid"
)

// reservationLocks hands out one mutex per reservation so that multi-step
// flows over the same reservation (intent creation, assignment updates) are
// serialized against each other without blocking unrelated reservations.
// Entries are reference counted and dropped when the last holder releases.
type reservationLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*reservationLock
}

type reservationLock struct {
	mu   sync.Mutex
	refs int
}

func newReservationLocks() *reservationLocks {
	return &reservationLocks{locks: make(map[uuid.UUID]*reservationLock)}
}

func (l *reservationLocks) lock(id uuid.UUID) {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &reservationLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

func (l *reservationLocks) unlock(id uuid.UUID) {
	l.mu.Lock()
	entry := l.locks[id]
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, id)
	}
	l.mu.Unlock()

	entry.mu.Unlock()
}
