package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"book-your-show/internal/data/entity"
	"book-your-show/pkg/database"
)

type TicketRepository interface {
	CreateBatch(ctx context.Context, tickets []*entity.Ticket) error
	FindByReservationID(ctx context.Context, reservationID uuid.UUID) ([]*entity.Ticket, error)
}

type ticketRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTicketRepository(db database.PgxIface, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket")),
	}
}

func (r *ticketRepository) CreateBatch(ctx context.Context, tickets []*entity.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	query := `
		INSERT INTO tickets (id, reservation_id, seat_id, occupant, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin ticket batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, ticket := range tickets {
		_, err := tx.Exec(ctx, query,
			ticket.ID,
			ticket.ReservationID,
			ticket.SeatID,
			ticket.Occupant,
			ticket.Price,
			ticket.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create ticket",
				zap.Error(err),
				zap.String("ticket_id", ticket.ID.String()),
				zap.String("seat_id", ticket.SeatID.String()),
			)
			return fmt.Errorf("create ticket %s: %w", ticket.ID.String(), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit ticket batch: %w", err)
	}

	return nil
}

func (r *ticketRepository) FindByReservationID(ctx context.Context, reservationID uuid.UUID) ([]*entity.Ticket, error) {
	query := `
		SELECT id, reservation_id, seat_id, occupant, price, created_at
		FROM tickets
		WHERE reservation_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, reservationID)
	if err != nil {
		r.log.Error("Failed to find tickets by reservation ID",
			zap.Error(err),
			zap.String("reservation_id", reservationID.String()),
		)
		return nil, fmt.Errorf("find tickets by reservation ID %s: %w", reservationID.String(), err)
	}
	defer rows.Close()

	var tickets []*entity.Ticket
	for rows.Next() {
		var ticket entity.Ticket
		err := rows.Scan(
			&ticket.ID,
			&ticket.ReservationID,
			&ticket.SeatID,
			&ticket.Occupant,
			&ticket.Price,
			&ticket.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan ticket row", zap.Error(err))
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}
		tickets = append(tickets, &ticket)
	}

	return tickets, nil
}
