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

var _ repository.PlanRepository = (*planRepo)(nil)

type planRepo struct {
	pool *pgxpool.Pool
}

func NewPlanRepo(pool *pgxpool.Pool) *planRepo {
	return &planRepo{pool: pool}
}

func (r *planRepo) Create(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now()
	}

	body, err := json.Marshal(plan.Plans)
	if err != nil {
		return fmt.Errorf("marshal plans json: %w", err)
	}

	const q = `
INSERT INTO plans (id, trip_id, plans, explain_md, created_at)
VALUES ($1, $2, $3, $4, $5);`

	_, err = execSQL(ctx, r.pool, tx, q, plan.ID, plan.TripID, body, plan.ExplainMD, plan.CreatedAt)
	return err
}

// FindLatestByTrip takes the newest row: competing generations for the
// same trip resolve last-write-wins.
func (r *planRepo) FindLatestByTrip(ctx context.Context, tripID string) (*model.Plan, error) {
	const q = `
SELECT id, trip_id, plans, explain_md, created_at
FROM plans
WHERE trip_id = $1
ORDER BY created_at DESC
LIMIT 1;`

	row, err := pickRow(ctx, r.pool, nil, q, tripID)
	if err != nil {
		return nil, err
	}

	var p model.Plan
	var body []byte
	err = row.Scan(&p.ID, &p.TripID, &body, &p.ExplainMD, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if err := json.Unmarshal(body, &p.Plans); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return &p, nil
}

var _ repository.ItineraryRepository = (*itineraryRepo)(nil)

type itineraryRepo struct {
	pool *pgxpool.Pool
}

func NewItineraryRepo(pool *pgxpool.Pool) *itineraryRepo {
	return &itineraryRepo{pool: pool}
}

func (r *itineraryRepo) Create(ctx context.Context, tx repository.Tx, it *model.Itinerary) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now()
	}

	body, err := json.Marshal(it.Days)
	if err != nil {
		return fmt.Errorf("marshal itinerary json: %w", err)
	}

	const q = `
INSERT INTO itineraries (id, trip_id, plan_index, days, render_md, created_at)
VALUES ($1, $2, $3, $4, $5, $6);`

	_, err = execSQL(ctx, r.pool, tx, q, it.ID, it.TripID, it.PlanIndex, body, it.RenderMD, it.CreatedAt)
	return err
}

func (r *itineraryRepo) FindLatestByTrip(ctx context.Context, tripID string) (*model.Itinerary, error) {
	const q = `
SELECT id, trip_id, plan_index, days, render_md, created_at
FROM itineraries
WHERE trip_id = $1
ORDER BY created_at DESC
LIMIT 1;`

	row, err := pickRow(ctx, r.pool, nil, q, tripID)
	if err != nil {
		return nil, err
	}

	var it model.Itinerary
	var body []byte
	err = row.Scan(&it.ID, &it.TripID, &it.PlanIndex, &body, &it.RenderMD, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if err := json.Unmarshal(body, &it.Days); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return &it, nil
}
