package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tripsmith/internal/domain"
	"tripsmith/internal/domain/model"
	"tripsmith/internal/domain/ports/repository"
	"tripsmith/internal/infra/logging"
	"tripsmith/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Stage progress checkpoints for a successful run.
const (
	progressStarting = 5
	progressFetch    = 20
	progressGenerate = 45
	progressValidate = 65
	progressPersist  = 80
	progressDone     = 100
)

// Orchestrator owns the job state machine. It is the only writer of a job
// once execution starts; every stage transition is committed before the
// next stage begins so a crash leaves the last-known stage accurate.
type Orchestrator struct {
	jobs        repository.JobRepository
	trips       repository.TripRepository
	plans       repository.PlanRepository
	itineraries repository.ItineraryRepository
	runs        repository.AgentRunRepository

	planner *Planner
	builder *ItineraryBuilder

	modelInfo map[string]string
	log       *zerolog.Logger
	now       func() time.Time
}

func NewOrchestrator(
	jobs repository.JobRepository,
	trips repository.TripRepository,
	plans repository.PlanRepository,
	itineraries repository.ItineraryRepository,
	runs repository.AgentRunRepository,
	planner *Planner,
	builder *ItineraryBuilder,
	modelInfo map[string]string,
	logger *zerolog.Logger,
) *Orchestrator {
	l := logger.With().Str("component", "Orchestrator").Logger()
	return &Orchestrator{
		jobs:        jobs,
		trips:       trips,
		plans:       plans,
		itineraries: itineraries,
		runs:        runs,
		planner:     planner,
		builder:     builder,
		modelInfo:   modelInfo,
		log:         &l,
		now:         time.Now,
	}
}

// Run executes one claimed job end to end. Never returns a non-nil error
// for job-level failures: those are recorded on the job itself. Panics are
// caught and recorded as a worker exception rather than propagating.
func (o *Orchestrator) Run(ctx context.Context, jobID string) error {
	job, err := o.jobs.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load job %s: %w", jobID, err)
	}
	if job.Terminal() {
		return nil
	}

	ctx = logging.WithJobID(ctx, job.ID)
	ctx = logging.WithTripID(ctx, job.TripID)
	log := logging.With(ctx, o.log)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("worker panic during job execution")
			o.fail(ctx, job, domain.NewFailure(domain.CodeWorkerException,
				fmt.Sprintf("unexpected worker exception: %v", r),
				"Retry the request; contact support if the problem persists."))
		}
	}()

	log.Info().Str("type", string(job.Type)).Msg("job started")
	o.transition(ctx, job, model.StageStarting, progressStarting, "starting")

	if err := o.execute(ctx, job); err != nil {
		var failure *domain.Failure
		if !errors.As(err, &failure) {
			failure = o.classify(err)
		}
		log.Warn().Str("code", string(failure.Code)).Str("reason", failure.Message).Msg("job failed")
		o.fail(ctx, job, failure)
		return nil
	}

	o.complete(ctx, job)
	log.Info().Msg("job complete")
	return nil
}

func (o *Orchestrator) execute(ctx context.Context, job *model.Job) error {
	trip, err := o.trips.FindByIDAndUser(ctx, job.TripID, job.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewFailure(domain.CodeTripNotFound,
				"the referenced trip does not exist",
				"Create the trip again before requesting generation.")
		}
		return err
	}

	switch job.Type {
	case model.JobTypePlan:
		return o.runPlan(ctx, job, trip)
	case model.JobTypeItinerary:
		return o.runItinerary(ctx, job, trip)
	default:
		return fmt.Errorf("%w: unknown job type %q", domain.ErrInvalidArgument, job.Type)
	}
}

// runPlan is the pure per-type handler for plan jobs, separately testable
// from queue transport.
func (o *Orchestrator) runPlan(ctx context.Context, job *model.Job, trip *model.Trip) error {
	if !trip.ConstraintsConfirmed() {
		return domain.NewFailure(domain.CodeConstraintsNotConfirmed,
			"trip constraints have not been confirmed",
			"Confirm the trip constraints, then request the plan again.")
	}

	snapshot := trip.Snapshot()
	trace := NewTraceRecorder()

	o.transition(ctx, job, model.StageFetchCandidates, progressFetch, "fetching flight and stay candidates")
	candidates, err := o.planner.Fetch(ctx, trace, snapshot)
	if err != nil {
		return err
	}

	o.transition(ctx, job, model.StageGenerate, progressGenerate, "selecting package variants")
	result, err := o.planner.Build(ctx, snapshot, candidates)
	if err != nil {
		return err
	}

	o.transition(ctx, job, model.StageValidate, progressValidate, "validating generated plans")
	if len(result.Plans.Options) < 3 {
		return domain.NewFailure(domain.CodePlanOutputInvalid,
			fmt.Sprintf("plan generation produced %d options, expected 3", len(result.Plans.Options)),
			"Investigate provider data quality; this is not retryable as-is.")
	}

	o.transition(ctx, job, model.StagePersist, progressPersist, "saving plan")
	plan := &model.Plan{
		ID:        uuid.NewString(),
		TripID:    trip.ID,
		CreatedAt: o.now().UTC(),
		Plans:     result.Plans,
		ExplainMD: result.ExplainMD,
	}
	if err := o.plans.Create(ctx, nil, plan); err != nil {
		return fmt.Errorf("persist plan: %w", err)
	}
	o.audit(ctx, trip.ID, "plan", snapshot, map[string]any{"plan_id": plan.ID, "options": len(result.Plans.Options)}, trace)

	job.Result = map[string]any{"plan_id": plan.ID}
	return nil
}

// runItinerary is the pure per-type handler for itinerary jobs.
func (o *Orchestrator) runItinerary(ctx context.Context, job *model.Job, trip *model.Trip) error {
	plan, err := o.plans.FindLatestByTrip(ctx, trip.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewFailure(domain.CodePlanRequired,
				"no plan exists for this trip yet",
				"Generate a plan first, then request the itinerary.")
		}
		return err
	}
	if job.PlanIndex < 0 || job.PlanIndex >= len(plan.Plans.Options) {
		return domain.NewFailure(domain.CodePlanRequired,
			fmt.Sprintf("plan index %d is out of range", job.PlanIndex),
			"Pick one of the generated plan variants (0-2).")
	}

	snapshot := trip.Snapshot()
	trace := NewTraceRecorder()

	o.transition(ctx, job, model.StageGenerate, progressGenerate, "building day-by-day itinerary")
	result, err := o.builder.Generate(ctx, trace, snapshot, plan.Plans, job.PlanIndex)
	if err != nil {
		return err
	}

	o.transition(ctx, job, model.StageValidate, progressValidate, "validating generated itinerary")
	if len(result.Itinerary.Days) < 1 {
		return domain.NewFailure(domain.CodeItineraryOutputInvalid,
			"itinerary generation produced no days",
			"Check the trip date range; contact support if dates are valid.")
	}

	o.transition(ctx, job, model.StagePersist, progressPersist, "saving itinerary")
	it := &model.Itinerary{
		ID:        uuid.NewString(),
		TripID:    trip.ID,
		PlanIndex: job.PlanIndex,
		CreatedAt: o.now().UTC(),
		Days:      result.Itinerary,
		RenderMD:  result.RenderMD,
	}
	if err := o.itineraries.Create(ctx, nil, it); err != nil {
		return fmt.Errorf("persist itinerary: %w", err)
	}
	o.audit(ctx, trip.ID, "itinerary", snapshot,
		map[string]any{"itinerary_id": it.ID, "days": len(result.Itinerary.Days), "unresolved_issues": result.UnresolvedIssues},
		trace)

	job.Result = map[string]any{
		"itinerary_id":      it.ID,
		"unresolved_issues": result.UnresolvedIssues,
	}
	return nil
}

// classify maps non-Failure errors onto the taxonomy. Missing candidates is
// a structural invariant break; everything else is a worker exception.
func (o *Orchestrator) classify(err error) *domain.Failure {
	if errors.Is(err, domain.ErrMissingCandidates) {
		return domain.NewFailure(domain.CodeNoCandidates,
			"a provider returned no usable candidates",
			"Try different dates or destination; check provider configuration.")
	}
	return domain.NewFailure(domain.CodeWorkerException,
		fmt.Sprintf("unexpected worker exception: %v", err),
		"Retry the request; contact support if the problem persists.")
}

// transition commits one stage boundary. Persistence failures here are
// logged but do not abort the run: the in-memory job stays authoritative
// and the next boundary retries the write.
func (o *Orchestrator) transition(ctx context.Context, job *model.Job, stage model.JobStage, progress int, message string) {
	job.Status = model.JobStatusRunning
	job.Stage = stage
	job.Progress = progress
	job.Message = message
	job.UpdatedAt = o.now().UTC()
	if err := o.jobs.Save(ctx, nil, job); err != nil {
		logging.With(ctx, o.log).Error().Err(err).Str("stage", string(stage)).Msg("stage update failed")
	}
}

func (o *Orchestrator) complete(ctx context.Context, job *model.Job) {
	job.Status = model.JobStatusSucceeded
	job.Stage = model.StageComplete
	job.Progress = progressDone
	job.Message = "done"
	job.ErrorCode = ""
	job.ErrorMessage = ""
	job.NextAction = ""
	job.UpdatedAt = o.now().UTC()
	if err := o.jobs.Save(context.WithoutCancel(ctx), nil, job); err != nil {
		logging.With(ctx, o.log).Error().Err(err).Msg("final job update failed")
	}
	metrics.IncJobProcessed(string(job.Type), string(model.JobStatusSucceeded))
}

func (o *Orchestrator) fail(ctx context.Context, job *model.Job, failure *domain.Failure) {
	job.Status = model.JobStatusFailed
	job.Stage = model.StageFailed
	job.Progress = progressDone
	job.Message = failure.Message
	job.ErrorCode = string(failure.Code)
	job.ErrorMessage = failure.Message
	job.NextAction = failure.NextAction
	job.UpdatedAt = o.now().UTC()
	if err := o.jobs.Save(context.WithoutCancel(ctx), nil, job); err != nil {
		logging.With(ctx, o.log).Error().Err(err).Msg("failure update failed")
	}
	metrics.IncJobProcessed(string(job.Type), string(model.JobStatusFailed))
	metrics.IncJobFailure(string(failure.Code))
}

// audit appends the write-once run record. Audit failures never affect the
// job outcome.
func (o *Orchestrator) audit(ctx context.Context, tripID, phase string, input model.TripSnapshot, output map[string]any, trace *TraceRecorder) {
	run := &model.AgentRun{
		ID:        uuid.NewString(),
		TripID:    tripID,
		CreatedAt: o.now().UTC(),
		Phase:     phase,
		Input:     map[string]any{"trip": input},
		Output:    output,
		ToolCalls: trace.Calls(),
		ModelInfo: o.modelInfo,
	}
	if err := o.runs.Append(ctx, nil, run); err != nil {
		logging.With(ctx, o.log).Warn().Err(err).Msg("audit append failed")
	}
}
