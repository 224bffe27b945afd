package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"book-your-show/internal/data/entity"
	"book-your-show/pkg/database"
)

type EventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
}

type eventRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEventRepository(db database.PgxIface, log *zap.Logger) EventRepository {
	return &eventRepository{
		db:  db,
		log: log.With(zap.String("repository", "event")),
	}
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `
		SELECT id, name, default_price, ticket_types, commission_type, commission_value,
		       tax_rate, ticket_sale_enabled, ticket_sale_start_date, ticket_sale_end_date,
		       created_at, updated_at
		FROM events
		WHERE id = $1
	`

	var event entity.Event
	var ticketTypesJSON []byte
	err := r.db.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Name,
		&event.DefaultPrice,
		&ticketTypesJSON,
		&event.Commission.Type,
		&event.Commission.Value,
		&event.Tax.Rate,
		&event.TicketSaleEnabled,
		&event.TicketSaleStartDate,
		&event.TicketSaleEndDate,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find event by ID",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return nil, fmt.Errorf("find event by ID %s: %w", id.String(), err)
	}

	if len(ticketTypesJSON) > 0 {
		if err := json.Unmarshal(ticketTypesJSON, &event.TicketTypes); err != nil {
			return nil, fmt.Errorf("decode ticket types for event %s: %w", id.String(), err)
		}
	}

	return &event, nil
}
