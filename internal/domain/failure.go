package domain

import "fmt"

// FailureCode is a stable, machine-readable error code in
// "CATEGORY.CAUSE" form, suitable for direct display in API responses.
type FailureCode string

const (
	CodeTripNotFound            FailureCode = "JOB.TRIP_NOT_FOUND"
	CodeConstraintsNotConfirmed FailureCode = "JOB.CONSTRAINTS_NOT_CONFIRMED"
	CodePlanRequired            FailureCode = "JOB.PLAN_REQUIRED"
	CodePlanOutputInvalid       FailureCode = "JOB.PLAN_OUTPUT_INVALID"
	CodeItineraryOutputInvalid  FailureCode = "JOB.ITINERARY_OUTPUT_INVALID"
	CodeNoCandidates            FailureCode = "PROVIDER.NO_CANDIDATES"
	CodeWorkerException         FailureCode = "INTERNAL.WORKER_EXCEPTION"
)

// Failure is a terminal job failure. It always carries a code, a
// human-readable message, and a remediation hint for the caller.
type Failure struct {
	Code       FailureCode
	Message    string
	NextAction string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

func NewFailure(code FailureCode, message, nextAction string) *Failure {
	return &Failure{Code: code, Message: message, NextAction: nextAction}
}
