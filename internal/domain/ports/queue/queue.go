package queue

import (
	"context"

	"tripsmith/internal/domain/model"
)

// TaskQueue delivers job IDs to workers at least once. The Postgres
// implementation rides on the jobs table itself (queued rows claimed with
// FOR UPDATE SKIP LOCKED), so Submit only has to make the queued row
// durable.
type TaskQueue interface {
	Submit(ctx context.Context, jobType model.JobType, jobID string) error
}

// Handler executes one claimed job end to end. Exactly one worker
// invocation processes a given job; there is no mid-job handoff.
type Handler interface {
	Run(ctx context.Context, jobID string) error
}
