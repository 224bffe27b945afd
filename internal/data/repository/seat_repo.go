package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"book-your-show/internal/data/entity"
	"book-your-show/pkg/database"
)

type SeatRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Seat, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.Seat, error)

	// UpdateState records the durable copy of seat state after the
	// inventory store has performed the transition. The inventory store is
	// the authority; this write is the recovery record.
	UpdateState(ctx context.Context, seatIDs []uuid.UUID, state entity.SeatState) error
}

type seatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatRepository(db database.PgxIface, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

const seatColumns = `id, event_id, label, seat_row, section, seat_type, ticket_type, base_price, state, created_at, updated_at`

func scanSeat(row pgx.Row) (*entity.Seat, error) {
	var seat entity.Seat
	err := row.Scan(
		&seat.ID,
		&seat.EventID,
		&seat.Label,
		&seat.SeatRow,
		&seat.Section,
		&seat.SeatType,
		&seat.TicketType,
		&seat.BasePrice,
		&seat.State,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *seatRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE id = $1`

	seat, err := scanSeat(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find seat by ID",
			zap.Error(err),
			zap.String("seat_id", id.String()),
		)
		return nil, fmt.Errorf("find seat by ID %s: %w", id.String(), err)
	}

	return seat, nil
}

func (r *seatRepository) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE event_id = $1 ORDER BY section, seat_row, label`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		r.log.Error("Failed to find seats by event ID",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("find seats by event ID %s: %w", eventID.String(), err)
	}
	defer rows.Close()

	var seats []*entity.Seat
	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			r.log.Error("Failed to scan seat row", zap.Error(err))
			return nil, fmt.Errorf("scan seat row: %w", err)
		}
		seats = append(seats, seat)
	}

	return seats, nil
}

func (r *seatRepository) UpdateState(ctx context.Context, seatIDs []uuid.UUID, state entity.SeatState) error {
	if len(seatIDs) == 0 {
		return nil
	}

	query := `UPDATE seats SET state = $1, updated_at = NOW() WHERE id = ANY($2)`

	_, err := r.db.Exec(ctx, query, state, seatIDs)
	if err != nil {
		r.log.Error("Failed to update seat state",
			zap.Error(err),
			zap.String("state", string(state)),
			zap.Int("seats", len(seatIDs)),
		)
		return fmt.Errorf("update %d seat(s) to %s: %w", len(seatIDs), state, err)
	}

	return nil
}
