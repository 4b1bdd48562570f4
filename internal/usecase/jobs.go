package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"tripsmith/internal/domain"
	"tripsmith/internal/domain/model"
	"tripsmith/internal/domain/ports/queue"
	"tripsmith/internal/domain/ports/repository"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// JobService creates queued jobs and answers polling reads. Execution is
// the orchestrator's business; this type never mutates a running job.
type JobService struct {
	jobs  repository.JobRepository
	trips repository.TripRepository
	queue queue.TaskQueue
	log   *zerolog.Logger
	now   func() time.Time
}

func NewJobService(jobs repository.JobRepository, trips repository.TripRepository, q queue.TaskQueue, logger *zerolog.Logger) *JobService {
	l := logger.With().Str("component", "JobService").Logger()
	return &JobService{jobs: jobs, trips: trips, queue: q, log: &l, now: time.Now}
}

func newJobID(now time.Time) string {
	// ULIDs sort by creation time, which the queue's oldest-first claim
	// ordering relies on.
	return ulid.MustNew(ulid.Timestamp(now), ulid.Monotonic(rand.New(rand.NewSource(now.UnixNano())), 0)).String()
}

// Enqueue creates a queued job for the trip and submits its ID to the task
// queue. The trip must exist and belong to the user.
func (s *JobService) Enqueue(ctx context.Context, tripID, userID string, jobType model.JobType, planIndex int) (*model.Job, error) {
	if _, err := s.trips.FindByIDAndUser(ctx, tripID, userID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	job := &model.Job{
		ID:        newJobID(now),
		TripID:    tripID,
		UserID:    userID,
		Type:      jobType,
		Status:    model.JobStatusQueued,
		Stage:     model.StageQueued,
		Progress:  0,
		Message:   "queued",
		PlanIndex: planIndex,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.jobs.Save(ctx, nil, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	if err := s.queue.Submit(ctx, jobType, job.ID); err != nil {
		// The queued row is durable; polling workers will still claim it.
		s.log.Warn().Err(err).Str("job_id", job.ID).Msg("queue submit failed, relying on poll pickup")
	}
	s.log.Info().Str("job_id", job.ID).Str("type", string(jobType)).Msg("job enqueued")
	return job, nil
}

// Poll returns the latest known state of a job, scoped to its owner.
func (s *JobService) Poll(ctx context.Context, jobID, userID string) (*model.Job, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

// NopQueue is the submit side of a purely poll-driven queue: the durable
// queued row is the work item, so submit has nothing left to do.
type NopQueue struct{}

func (NopQueue) Submit(ctx context.Context, jobType model.JobType, jobID string) error {
	if jobID == "" {
		return errors.New("empty job id")
	}
	return nil
}
