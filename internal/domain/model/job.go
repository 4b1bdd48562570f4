package model

import "time"

type JobType string

const (
	JobTypePlan      JobType = "plan"
	JobTypeItinerary JobType = "itinerary"
)

type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// JobStage is the fine-grained checkpoint within a run. Status mirrors it
// coarsely: queued only at QUEUED, succeeded only at COMPLETE, failed only
// at FAILED, running for everything in between.
type JobStage string

const (
	StageQueued          JobStage = "QUEUED"
	StageStarting        JobStage = "STARTING"
	StageFetchCandidates JobStage = "FETCH_CANDIDATES"
	StageGenerate        JobStage = "GENERATE"
	StageValidate        JobStage = "VALIDATE"
	StagePersist         JobStage = "PERSIST"
	StageComplete        JobStage = "COMPLETE"
	StageFailed          JobStage = "FAILED"
)

// Job is one asynchronous generation request. Created queued by the
// enqueuing side and mutated exclusively by the worker that executes it.
// Jobs are never deleted, only superseded by newer jobs for the same trip.
type Job struct {
	ID     string
	TripID string
	UserID string
	Type   JobType

	Status   JobStatus
	Stage    JobStage
	Progress int
	Message  string

	// PlanIndex selects the plan variant for itinerary jobs (0..2).
	PlanIndex int

	Result map[string]any

	ErrorCode    string
	ErrorMessage string
	NextAction   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Terminal reports whether the job can no longer change state.
func (j *Job) Terminal() bool {
	return j.Status == JobStatusSucceeded || j.Status == JobStatusFailed
}
