package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"book-your-show/internal/data/entity"
	"book-your-show/pkg/database"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	Update(ctx context.Context, reservation *entity.Reservation) error

	// FindExpiredHeld returns held reservations whose expiry has passed, for
	// the reaper sweep.
	FindExpiredHeld(ctx context.Context, now time.Time, limit int) ([]*entity.Reservation, error)
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

const reservationColumns = `id, event_id, seat_ids, expires_at, assignments, subtotal, commission, taxes, total, status, payment_ref, created_at, updated_at`

func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	assignments, err := json.Marshal(reservation.Assignments)
	if err != nil {
		return fmt.Errorf("encode assignments: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		reservation.ID,
		reservation.EventID,
		reservation.SeatIDs,
		reservation.ExpiresAt,
		assignments,
		reservation.Amount.Subtotal,
		reservation.Amount.Commission,
		reservation.Amount.Taxes,
		reservation.Amount.Total,
		reservation.Status,
		reservation.PaymentRef,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("reservation_id", reservation.ID.String()),
			zap.String("event_id", reservation.EventID.String()),
		)
		return fmt.Errorf("create reservation %s: %w", reservation.ID.String(), err)
	}

	return nil
}

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var reservation entity.Reservation
	var assignments []byte
	err := row.Scan(
		&reservation.ID,
		&reservation.EventID,
		&reservation.SeatIDs,
		&reservation.ExpiresAt,
		&assignments,
		&reservation.Amount.Subtotal,
		&reservation.Amount.Commission,
		&reservation.Amount.Taxes,
		&reservation.Amount.Total,
		&reservation.Status,
		&reservation.PaymentRef,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(assignments) > 0 {
		if err := json.Unmarshal(assignments, &reservation.Assignments); err != nil {
			return nil, fmt.Errorf("decode assignments: %w", err)
		}
	}

	return &reservation, nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	reservation, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation by ID",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return nil, fmt.Errorf("find reservation by ID %s: %w", id.String(), err)
	}

	return reservation, nil
}

func (r *reservationRepository) Update(ctx context.Context, reservation *entity.Reservation) error {
	query := `
		UPDATE reservations
		SET assignments = $2, subtotal = $3, commission = $4, taxes = $5, total = $6,
		    status = $7, payment_ref = $8, updated_at = $9
		WHERE id = $1
	`

	assignments, err := json.Marshal(reservation.Assignments)
	if err != nil {
		return fmt.Errorf("encode assignments: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		reservation.ID,
		assignments,
		reservation.Amount.Subtotal,
		reservation.Amount.Commission,
		reservation.Amount.Taxes,
		reservation.Amount.Total,
		reservation.Status,
		reservation.PaymentRef,
		reservation.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update reservation",
			zap.Error(err),
			zap.String("reservation_id", reservation.ID.String()),
		)
		return fmt.Errorf("update reservation %s: %w", reservation.ID.String(), err)
	}

	return nil
}

func (r *reservationRepository) FindExpiredHeld(ctx context.Context, now time.Time, limit int) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE status = $1 AND expires_at <= $2
		ORDER BY expires_at
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, entity.ReservationHeld, now, limit)
	if err != nil {
		r.log.Error("Failed to find expired reservations", zap.Error(err))
		return nil, fmt.Errorf("find expired reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			r.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, reservation)
	}

	return reservations, nil
}
