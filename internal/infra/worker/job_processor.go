package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"tripsmith/internal/domain"
	"tripsmith/internal/domain/ports/queue"
	"tripsmith/internal/domain/ports/repository"
)

// JobProcessor polls the jobs table for queued work and hands claimed jobs
// to the handler on the pool. The table is the durable queue; a claim is a
// row-level status flip under FOR UPDATE SKIP LOCKED, so any number of
// processors can run side by side.
type JobProcessor struct {
	jobsRepo repository.JobRepository
	handler  queue.Handler
	interval time.Duration
	log      *zerolog.Logger
}

func NewJobProcessor(jobsRepo repository.JobRepository, handler queue.Handler, interval time.Duration, logger *zerolog.Logger) *JobProcessor {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	l := logger.With().Str("component", "JobProcessor").Logger()
	return &JobProcessor{jobsRepo: jobsRepo, handler: handler, interval: interval, log: &l}
}

// Start runs the poll loop. This should be run in a goroutine.
func (p *JobProcessor) Start(ctx context.Context, pool *Pool) {
	p.log.Info().Msg("job processor started")
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("job processor stopping")
			return
		case <-ticker.C:
			_ = pool.Submit(func(ctx context.Context) error {
				p.processOne(ctx)
				return nil
			})
		}
	}
}

func (p *JobProcessor) processOne(ctx context.Context) {
	job, err := p.jobsRepo.FetchAndMarkRunning(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			p.log.Error().Err(err).Msg("failed to claim job")
		}
		return
	}

	start := time.Now()
	if err := p.handler.Run(ctx, job.ID); err != nil {
		p.log.Error().Err(err).Str("job_id", job.ID).Msg("job execution error")
		return
	}
	p.log.Debug().Str("job_id", job.ID).Dur("duration_ms", time.Since(start)).Msg("job processed")
}
