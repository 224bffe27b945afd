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
	"book-your-show/internal/inventory"
	"book-your-show/pkg/cache"
	"book-your-show/pkg/queue"
	"book-your-show/pkg/utils"
)

type fakeEventRepo struct {
	events map[uuid.UUID]*entity.Event
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	return f.events[id], nil
}

type fakeSeatRepo struct {
	mu     sync.Mutex
	seats  map[uuid.UUID][]*entity.Seat
	states map[uuid.UUID]entity.SeatState
}

func (f *fakeSeatRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, seats := range f.seats {
		for _, seat := range seats {
			if seat.ID == id {
				return seat, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeSeatRepo) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seats[eventID], nil
}

func (f *fakeSeatRepo) UpdateState(ctx context.Context, seatIDs []uuid.UUID, state entity.SeatState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range seatIDs {
		f.states[id] = state
	}
	return nil
}

type fakeReservationRepo struct {
	mu         sync.Mutex
	items      map[uuid.UUID]*entity.Reservation
	failCreate bool
}

func (f *fakeReservationRepo) Create(ctx context.Context, reservation *entity.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("insert failed")
	}
	f.items[reservation.ID] = reservation
	return nil
}

func (f *fakeReservationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id], nil
}

func (f *fakeReservationRepo) Update(ctx context.Context, reservation *entity.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[reservation.ID] = reservation
	return nil
}

func (f *fakeReservationRepo) FindExpiredHeld(ctx context.Context, now time.Time, limit int) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var expired []*entity.Reservation
	for _, reservation := range f.items {
		if reservation.Status == entity.ReservationHeld && reservation.ExpiredAt(now) {
			expired = append(expired, reservation)
			if len(expired) == limit {
				break
			}
		}
	}
	return expired, nil
}

type fakeIntentRepo struct {
	mu    sync.Mutex
	items []*entity.PaymentIntent
}

func (f *fakeIntentRepo) Create(ctx context.Context, intent *entity.PaymentIntent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, intent)
	return nil
}

func (f *fakeIntentRepo) FindByProviderRef(ctx context.Context, providerRef string) (*entity.PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, intent := range f.items {
		if intent.ProviderRef == providerRef {
			return intent, nil
		}
	}
	return nil, nil
}

func (f *fakeIntentRepo) FindPendingByReservationID(ctx context.Context, reservationID uuid.UUID) (*entity.PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, intent := range f.items {
		if intent.ReservationID == reservationID && intent.Status == entity.IntentPending {
			return intent, nil
		}
	}
	return nil, nil
}

func (f *fakeIntentRepo) CountByReservationID(ctx context.Context, reservationID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, intent := range f.items {
		if intent.ReservationID == reservationID {
			count++
		}
	}
	return count, nil
}

func (f *fakeIntentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.IntentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, intent := range f.items {
		if intent.ID == id {
			intent.Status = status
			return nil
		}
	}
	return errors.New("intent not found")
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets []*entity.Ticket
}

func (f *fakeTicketRepo) CreateBatch(ctx context.Context, tickets []*entity.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickets = append(f.tickets, tickets...)
	return nil
}

func (f *fakeTicketRepo) FindByReservationID(ctx context.Context, reservationID uuid.UUID) ([]*entity.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Ticket
	for _, ticket := range f.tickets {
		if ticket.ReservationID == reservationID {
			out = append(out, ticket)
		}
	}
	return out, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []queue.SettledEvent
}

func (f *fakePublisher) PublishSettled(ctx context.Context, event queue.SettledEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) Close() {}

type fakeProvider struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeProvider) CreateIntent(ctx context.Context, req ProviderIntentRequest) (*ProviderIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.calls++
	return &ProviderIntent{Reference: fmt.Sprintf("pay-ref-%d", f.calls)}, nil
}

// testEnv wires the services against in-memory fakes with a controllable
// clock. Seats: A1 and A2 price off the event default; V1 and V2 carry the
// VIP catalog entry; X1 is broken.
type testEnv struct {
	now time.Time

	eventID uuid.UUID
	seatIDs map[string]uuid.UUID

	events       *fakeEventRepo
	seats        *fakeSeatRepo
	reservations *fakeReservationRepo
	intents      *fakeIntentRepo
	tickets      *fakeTicketRepo
	publisher    *fakePublisher
	provider     *fakeProvider

	store    *inventory.Store
	service  ReservationService
	payment  PaymentService
	payments *paymentService
}

func newTestEnv() *testEnv {
	e := &testEnv{
		now:     time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		eventID: uuid.New(),
		seatIDs: make(map[string]uuid.UUID),
	}

	start := e.now.Add(-time.Hour)
	end := e.now.Add(24 * time.Hour)
	event := &entity.Event{
		Base:         entity.Base{ID: e.eventID},
		Name:         "Main Hall Premiere",
		DefaultPrice: 500,
		TicketTypes: []entity.TicketType{
			{Name: "VIP", AdultPrice: 1000, ChildPrice: 700},
		},
		Commission:          entity.CommissionPolicy{Type: entity.CommissionPercentage, Value: 10},
		Tax:                 entity.TaxPolicy{Rate: 0.08},
		TicketSaleEnabled:   true,
		TicketSaleStartDate: &start,
		TicketSaleEndDate:   &end,
	}
	e.events = &fakeEventRepo{events: map[uuid.UUID]*entity.Event{e.eventID: event}}

	mkSeat := func(label, ticketType string, state entity.SeatState) *entity.Seat {
		id := uuid.New()
		e.seatIDs[label] = id
		return &entity.Seat{
			Base:       entity.Base{ID: id},
			EventID:    e.eventID,
			Label:      label,
			SeatRow:    label[:1],
			Section:    "MAIN",
			SeatType:   "standard",
			TicketType: ticketType,
			State:      state,
		}
	}
	e.seats = &fakeSeatRepo{
		seats: map[uuid.UUID][]*entity.Seat{
			e.eventID: {
				mkSeat("A1", "", entity.SeatAvailable),
				mkSeat("A2", "", entity.SeatAvailable),
				mkSeat("V1", "VIP", entity.SeatAvailable),
				mkSeat("V2", "VIP", entity.SeatAvailable),
				mkSeat("X1", "", entity.SeatBroken),
			},
		},
		states: make(map[uuid.UUID]entity.SeatState),
	}

	e.reservations = &fakeReservationRepo{items: make(map[uuid.UUID]*entity.Reservation)}
	e.intents = &fakeIntentRepo{}
	e.tickets = &fakeTicketRepo{}
	e.publisher = &fakePublisher{}
	e.provider = &fakeProvider{}

	repo := &repository.Repository{
		Event:       e.events,
		Seat:        e.seats,
		Reservation: e.reservations,
		Intent:      e.intents,
		Ticket:      e.tickets,
	}

	log := zap.NewNop()
	config := &utils.Config{
		Engine: utils.EngineConfig{
			HoldSeconds:       600,
			MaxHoldSeconds:    3600,
			PaymentRetryLimit: 3,
		},
	}

	e.store = inventory.NewStore(e.seats, log)
	seatCache := cache.NewSeatCache(nil, time.Second, log)

	locks := newReservationLocks()
	reservations := NewReservationService(repo, e.store, seatCache, e.publisher, config, locks, log).(*reservationService)
	reservations.now = func() time.Time { return e.now }
	e.service = reservations

	payments := NewPaymentService(repo, reservations, e.provider, config, locks, log).(*paymentService)
	payments.now = func() time.Time { return e.now }
	e.payment = payments
	e.payments = payments

	return e
}

func (e *testEnv) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

func (e *testEnv) seatID(label string) string {
	return e.seatIDs[label].String()
}

func validPaymentRequest() *request.CreatePaymentIntentRequest {
	return &request.CreatePaymentIntentRequest{
		CardNumber:  "4111111111111111",
		ExpiryDate:  "12/28",
		CVV:         "123",
		PhoneNumber: "6285551234",
	}
}
