package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tripsmith/internal/domain"
	"tripsmith/internal/domain/model"
	"tripsmith/internal/domain/ports/repository"
)

var _ repository.JobRepository = (*jobRepo)(nil)

type jobRepo struct {
	pool *pgxpool.Pool
	tm   repository.TransactionManager
}

func NewJobRepo(pool *pgxpool.Pool, tm repository.TransactionManager) *jobRepo {
	return &jobRepo{pool: pool, tm: tm}
}

func (r *jobRepo) Save(ctx context.Context, tx repository.Tx, job *model.Job) error {
	job.UpdatedAt = time.Now()

	result, err := json.Marshal(job.Result)
	if err != nil {
		return fmt.Errorf("marshal job result: %w", err)
	}

	const q = `
INSERT INTO jobs (id, trip_id, user_id, type, status, stage, progress, message, plan_index,
                  result, error_code, error_message, next_action, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (id) DO UPDATE SET
  status = EXCLUDED.status,
  stage = EXCLUDED.stage,
  progress = EXCLUDED.progress,
  message = EXCLUDED.message,
  result = EXCLUDED.result,
  error_code = EXCLUDED.error_code,
  error_message = EXCLUDED.error_message,
  next_action = EXCLUDED.next_action,
  updated_at = EXCLUDED.updated_at;`

	_, err = execSQL(ctx, r.pool, tx, q,
		job.ID, job.TripID, job.UserID, job.Type, job.Status, job.Stage, job.Progress,
		job.Message, job.PlanIndex, result, job.ErrorCode, job.ErrorMessage, job.NextAction,
		job.CreatedAt, job.UpdatedAt)
	return err
}

const jobColumns = `id, trip_id, user_id, type, status, stage, progress, message, plan_index,
       result, error_code, error_message, next_action, created_at, updated_at`

func (r *jobRepo) FindByID(ctx context.Context, id string) (*model.Job, error) {
	q := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, nil, q, id)
	if err != nil {
		return nil, err
	}
	return scanJob(row)
}

// FetchAndMarkRunning claims the oldest queued job inside one transaction,
// so concurrent workers never pick up the same row.
func (r *jobRepo) FetchAndMarkRunning(ctx context.Context) (*model.Job, error) {
	var job *model.Job

	err := r.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		q := `
SELECT ` + jobColumns + `
FROM jobs
WHERE status = 'queued'
ORDER BY created_at
LIMIT 1
FOR UPDATE SKIP LOCKED;`

		row, err := pickRow(ctx, r.pool, tx, q)
		if err != nil {
			return err
		}
		claimed, err := scanJob(row)
		if err != nil {
			return err
		}

		claimed.Status = model.JobStatusRunning
		if err := r.Save(ctx, tx, claimed); err != nil {
			return err
		}

		job = claimed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

func scanJob(row pgx.Row) (*model.Job, error) {
	var j model.Job
	var result []byte
	err := row.Scan(
		&j.ID, &j.TripID, &j.UserID, &j.Type, &j.Status, &j.Stage, &j.Progress,
		&j.Message, &j.PlanIndex, &result, &j.ErrorCode, &j.ErrorMessage, &j.NextAction,
		&j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if len(result) > 0 {
		if err := json.Unmarshal(result, &j.Result); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
	}
	return &j, nil
}
