package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"book-your-show/internal/data/entity"
)

type fakeSeatSource struct {
	seats map[uuid.UUID][]*entity.Seat
}

func (f *fakeSeatSource) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.Seat, error) {
	return f.seats[eventID], nil
}

func newTestStore(t *testing.T, eventID uuid.UUID, states ...entity.SeatState) (*Store, []uuid.UUID) {
	t.Helper()

	seats := make([]*entity.Seat, len(states))
	ids := make([]uuid.UUID, len(states))
	for i, state := range states {
		id := uuid.New()
		ids[i] = id
		seats[i] = &entity.Seat{
			Base:    entity.Base{ID: id},
			EventID: eventID,
			State:   state,
		}
	}

	source := &fakeSeatSource{seats: map[uuid.UUID][]*entity.Seat{eventID: seats}}
	return NewStore(source, zap.NewNop()), ids
}

func TestTryHoldAllOrNothing(t *testing.T) {
	eventID := uuid.New()
	store, ids := newTestStore(t, eventID,
		entity.SeatAvailable, entity.SeatAvailable, entity.SeatBooked)
	ctx := context.Background()

	err := store.TryHold(ctx, eventID, ids, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSeatUnavailable))

	var unavailable *UnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, []uuid.UUID{ids[2]}, unavailable.SeatIDs)

	// The available seats must not have been touched.
	for _, id := range ids[:2] {
		state, err := store.Get(ctx, eventID, id)
		require.NoError(t, err)
		assert.Equal(t, entity.SeatAvailable, state)
	}
}

func TestTryHoldRejectsAdministrativeSeats(t *testing.T) {
	eventID := uuid.New()
	store, ids := newTestStore(t, eventID, entity.SeatAvailable, entity.SeatBroken)
	ctx := context.Background()

	err := store.TryHold(ctx, eventID, ids, uuid.New())

	var unavailable *UnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, []uuid.UUID{ids[1]}, unavailable.SeatIDs)
}

func TestConcurrentOverlappingHolds(t *testing.T) {
	eventID := uuid.New()
	store, ids := newTestStore(t, eventID,
		entity.SeatAvailable, entity.SeatAvailable, entity.SeatAvailable)
	ctx := context.Background()

	// Two hold requests over overlapping sets {A,B} and {B,C}. Exactly one
	// must win; the loser must see seat B in its conflict list.
	setOne := []uuid.UUID{ids[0], ids[1]}
	setTwo := []uuid.UUID{ids[1], ids[2]}

	var wg sync.WaitGroup
	results := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		results[0] = store.TryHold(ctx, eventID, setOne, uuid.New())
	}()
	go func() {
		defer wg.Done()
		results[1] = store.TryHold(ctx, eventID, setTwo, uuid.New())
	}()
	wg.Wait()

	var won, lost int
	for _, err := range results {
		if err == nil {
			won++
			continue
		}
		lost++
		var unavailable *UnavailableError
		require.True(t, errors.As(err, &unavailable))
		assert.Contains(t, unavailable.SeatIDs, ids[1])
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)

	// The loser's non-overlapping seat must still be available.
	held := 0
	for _, id := range ids {
		state, err := store.Get(ctx, eventID, id)
		require.NoError(t, err)
		if state == entity.SeatHeld {
			held++
		}
	}
	assert.Equal(t, 2, held)
}

func TestConcurrentHoldStress(t *testing.T) {
	eventID := uuid.New()
	states := make([]entity.SeatState, 20)
	for i := range states {
		states[i] = entity.SeatAvailable
	}
	store, ids := newTestStore(t, eventID, states...)
	ctx := context.Background()

	// 50 goroutines all race for the same pair of seats; exactly one wins.
	var wg sync.WaitGroup
	var wins int64
	var mu sync.Mutex
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.TryHold(ctx, eventID, ids[:2], uuid.New()); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins)
}

func TestCommitOnlyFromOwnHold(t *testing.T) {
	eventID := uuid.New()
	store, ids := newTestStore(t, eventID, entity.SeatAvailable, entity.SeatAvailable)
	ctx := context.Background()

	owner := uuid.New()
	require.NoError(t, store.TryHold(ctx, eventID, ids, owner))

	// A different reservation committing these seats is a protocol
	// violation and must not flip anything.
	err := store.Commit(ctx, eventID, ids, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConsistency))

	state, err := store.Get(ctx, eventID, ids[0])
	require.NoError(t, err)
	assert.Equal(t, entity.SeatHeld, state)

	require.NoError(t, store.Commit(ctx, eventID, ids, owner))
	state, err = store.Get(ctx, eventID, ids[0])
	require.NoError(t, err)
	assert.Equal(t, entity.SeatBooked, state)
}

func TestCommitAvailableSeatIsConsistencyError(t *testing.T) {
	eventID := uuid.New()
	store, ids := newTestStore(t, eventID, entity.SeatAvailable)
	ctx := context.Background()

	err := store.Commit(ctx, eventID, ids, uuid.New())
	assert.True(t, errors.Is(err, ErrConsistency))
}

func TestReleaseIdempotent(t *testing.T) {
	eventID := uuid.New()
	store, ids := newTestStore(t, eventID, entity.SeatAvailable, entity.SeatAvailable)
	ctx := context.Background()

	owner := uuid.New()
	require.NoError(t, store.TryHold(ctx, eventID, ids, owner))

	require.NoError(t, store.Release(ctx, eventID, ids, owner))
	require.NoError(t, store.Release(ctx, eventID, ids, owner))

	state, err := store.Get(ctx, eventID, ids[0])
	require.NoError(t, err)
	assert.Equal(t, entity.SeatAvailable, state)
}

func TestReleaseDoesNotTouchForeignHold(t *testing.T) {
	eventID := uuid.New()
	store, ids := newTestStore(t, eventID, entity.SeatAvailable)
	ctx := context.Background()

	first := uuid.New()
	require.NoError(t, store.TryHold(ctx, eventID, ids, first))
	require.NoError(t, store.Release(ctx, eventID, ids, first))

	// A new reservation claims the seat; a late release from the first
	// reservation (e.g. reaper racing a cancel) must not free it.
	second := uuid.New()
	require.NoError(t, store.TryHold(ctx, eventID, ids, second))
	require.NoError(t, store.Release(ctx, eventID, ids, first))

	state, err := store.Get(ctx, eventID, ids[0])
	require.NoError(t, err)
	assert.Equal(t, entity.SeatHeld, state)
}

func TestReleasedSeatsAreHoldableAgain(t *testing.T) {
	eventID := uuid.New()
	store, ids := newTestStore(t, eventID, entity.SeatAvailable, entity.SeatAvailable)
	ctx := context.Background()

	first := uuid.New()
	require.NoError(t, store.TryHold(ctx, eventID, ids, first))
	require.NoError(t, store.Release(ctx, eventID, ids, first))

	require.NoError(t, store.TryHold(ctx, eventID, ids, uuid.New()))
}

func TestSnapshotIsACopy(t *testing.T) {
	eventID := uuid.New()
	store, ids := newTestStore(t, eventID, entity.SeatAvailable)
	ctx := context.Background()

	snapshot, err := store.Snapshot(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)

	snapshot[0].State = entity.SeatBooked

	state, err := store.Get(ctx, eventID, ids[0])
	require.NoError(t, err)
	assert.Equal(t, entity.SeatAvailable, state)
}
