package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tripsmith/internal/domain"
	"tripsmith/internal/domain/model"
	"tripsmith/internal/domain/ports/repository"
)

var _ repository.TripRepository = (*tripRepo)(nil)

type tripRepo struct {
	pool *pgxpool.Pool
}

func NewTripRepo(pool *pgxpool.Pool) *tripRepo {
	return &tripRepo{pool: pool}
}

func (r *tripRepo) Save(ctx context.Context, tx repository.Tx, trip *model.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.NewString()
	}
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = time.Now()
	}

	prefs, err := json.Marshal(trip.Preferences)
	if err != nil {
		return fmt.Errorf("marshal trip preferences: %w", err)
	}
	var constraints []byte
	if trip.Constraints != nil {
		constraints, err = json.Marshal(trip.Constraints)
		if err != nil {
			return fmt.Errorf("marshal trip constraints: %w", err)
		}
	}

	const q = `
INSERT INTO trips (id, user_id, origin, destination, start_date, end_date, flexible_days,
                   budget_total, currency, travelers, preferences, constraints,
                   constraints_confirmed_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (id) DO UPDATE SET
  origin = EXCLUDED.origin,
  destination = EXCLUDED.destination,
  start_date = EXCLUDED.start_date,
  end_date = EXCLUDED.end_date,
  flexible_days = EXCLUDED.flexible_days,
  budget_total = EXCLUDED.budget_total,
  currency = EXCLUDED.currency,
  travelers = EXCLUDED.travelers,
  preferences = EXCLUDED.preferences,
  constraints = EXCLUDED.constraints,
  constraints_confirmed_at = EXCLUDED.constraints_confirmed_at;`

	_, err = execSQL(ctx, r.pool, tx, q,
		trip.ID, trip.UserID, trip.Origin, trip.Destination, trip.StartDate, trip.EndDate,
		trip.FlexibleDays, trip.BudgetTotal, trip.Currency, trip.Travelers,
		prefs, constraints, trip.ConstraintsConfirmedAt, trip.CreatedAt)
	return err
}

func (r *tripRepo) FindByIDAndUser(ctx context.Context, id, userID string) (*model.Trip, error) {
	const q = `
SELECT id, user_id, origin, destination, start_date, end_date, flexible_days,
       budget_total, currency, travelers, preferences, constraints,
       constraints_confirmed_at, created_at
FROM trips
WHERE id = $1 AND user_id = $2;`

	row, err := pickRow(ctx, r.pool, nil, q, id, userID)
	if err != nil {
		return nil, err
	}

	var t model.Trip
	var prefs, constraints []byte
	err = row.Scan(
		&t.ID, &t.UserID, &t.Origin, &t.Destination, &t.StartDate, &t.EndDate,
		&t.FlexibleDays, &t.BudgetTotal, &t.Currency, &t.Travelers,
		&prefs, &constraints, &t.ConstraintsConfirmedAt, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &t.Preferences); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
	}
	if len(constraints) > 0 {
		t.Constraints = &model.Constraints{}
		if err := json.Unmarshal(constraints, t.Constraints); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
	}
	return &t, nil
}

func (r *tripRepo) ConfirmConstraints(ctx context.Context, tx repository.Tx, tripID string, constraints *model.Constraints) error {
	body, err := json.Marshal(constraints)
	if err != nil {
		return fmt.Errorf("marshal trip constraints: %w", err)
	}

	const q = `
UPDATE trips
SET constraints = $2, constraints_confirmed_at = NOW()
WHERE id = $1;`

	tag, err := execSQL(ctx, r.pool, tx, q, tripID, body)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
