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

type IntentRepository interface {
	Create(ctx context.Context, intent *entity.PaymentIntent) error
	FindByProviderRef(ctx context.Context, providerRef string) (*entity.PaymentIntent, error)
	FindPendingByReservationID(ctx context.Context, reservationID uuid.UUID) (*entity.PaymentIntent, error)
	CountByReservationID(ctx context.Context, reservationID uuid.UUID) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.IntentStatus) error
}

type intentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewIntentRepository(db database.PgxIface, log *zap.Logger) IntentRepository {
	return &intentRepository{
		db:  db,
		log: log.With(zap.String("repository", "intent")),
	}
}

const intentColumns = `id, reservation_id, provider_ref, amount, status, attempt, created_at, updated_at`

func scanIntent(row pgx.Row) (*entity.PaymentIntent, error) {
	var intent entity.PaymentIntent
	err := row.Scan(
		&intent.ID,
		&intent.ReservationID,
		&intent.ProviderRef,
		&intent.Amount,
		&intent.Status,
		&intent.Attempt,
		&intent.CreatedAt,
		&intent.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

func (r *intentRepository) Create(ctx context.Context, intent *entity.PaymentIntent) error {
	query := `
		INSERT INTO payment_intents (` + intentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		intent.ID,
		intent.ReservationID,
		intent.ProviderRef,
		intent.Amount,
		intent.Status,
		intent.Attempt,
		intent.CreatedAt,
		intent.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create payment intent",
			zap.Error(err),
			zap.String("intent_id", intent.ID.String()),
			zap.String("reservation_id", intent.ReservationID.String()),
		)
		return fmt.Errorf("create payment intent %s: %w", intent.ID.String(), err)
	}

	return nil
}

func (r *intentRepository) FindByProviderRef(ctx context.Context, providerRef string) (*entity.PaymentIntent, error) {
	query := `SELECT ` + intentColumns + ` FROM payment_intents WHERE provider_ref = $1`

	intent, err := scanIntent(r.db.QueryRow(ctx, query, providerRef))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find intent by provider ref",
			zap.Error(err),
			zap.String("provider_ref", providerRef),
		)
		return nil, fmt.Errorf("find intent by provider ref %s: %w", providerRef, err)
	}

	return intent, nil
}

func (r *intentRepository) FindPendingByReservationID(ctx context.Context, reservationID uuid.UUID) (*entity.PaymentIntent, error) {
	query := `
		SELECT ` + intentColumns + `
		FROM payment_intents
		WHERE reservation_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	intent, err := scanIntent(r.db.QueryRow(ctx, query, reservationID, entity.IntentPending))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find pending intent",
			zap.Error(err),
			zap.String("reservation_id", reservationID.String()),
		)
		return nil, fmt.Errorf("find pending intent for reservation %s: %w", reservationID.String(), err)
	}

	return intent, nil
}

func (r *intentRepository) CountByReservationID(ctx context.Context, reservationID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM payment_intents WHERE reservation_id = $1`

	var count int
	err := r.db.QueryRow(ctx, query, reservationID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count intents",
			zap.Error(err),
			zap.String("reservation_id", reservationID.String()),
		)
		return 0, fmt.Errorf("count intents for reservation %s: %w", reservationID.String(), err)
	}

	return count, nil
}

func (r *intentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.IntentStatus) error {
	query := `UPDATE payment_intents SET status = $2, updated_at = NOW() WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update intent status",
			zap.Error(err),
			zap.String("intent_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update intent %s to %s: %w", id.String(), status, err)
	}

	return nil
}
