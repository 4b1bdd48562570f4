package repository

import (
	"context"

	"tripsmith/internal/domain/model"
)

// JobRepository persists job records durably. Stage updates are committed
// synchronously at each stage boundary so a crash leaves the last-known
// stage accurate.
type JobRepository interface {
	Save(ctx context.Context, tx Tx, job *model.Job) error
	FindByID(ctx context.Context, id string) (*model.Job, error)
	// FetchAndMarkRunning atomically claims the oldest queued job and marks
	// it running so no other worker picks it up. Returns domain.ErrNotFound
	// when the queue is empty.
	FetchAndMarkRunning(ctx context.Context) (*model.Job, error)
}
