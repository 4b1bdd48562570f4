//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"tripsmith/internal/domain"
	"tripsmith/internal/domain/model"
	"tripsmith/internal/usecase"
)

func TestJobServiceEnqueue(t *testing.T) {
	t.Parallel()

	trips := newMemTripRepo()
	jobs := newMemJobRepo()
	trips.Save(context.Background(), nil, confirmedTrip("t1", "u1"))
	svc := usecase.NewJobService(jobs, trips, usecase.NopQueue{}, newTestLogger())

	job, err := svc.Enqueue(context.Background(), "t1", "u1", model.JobTypePlan, 0)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if job.ID == "" {
		t.Fatalf("job has no ID")
	}
	if job.Status != model.JobStatusQueued || job.Stage != model.StageQueued {
		t.Fatalf("status/stage = %s/%s, want queued/QUEUED", job.Status, job.Stage)
	}
	if job.Progress != 0 || job.Message != "queued" {
		t.Fatalf("progress/message = %d/%q", job.Progress, job.Message)
	}

	stored, err := jobs.FindByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("job not persisted: %v", err)
	}
	if stored.TripID != "t1" || stored.UserID != "u1" {
		t.Fatalf("persisted scoping wrong: trip=%s user=%s", stored.TripID, stored.UserID)
	}
}

func TestJobServiceEnqueueRejectsForeignTrip(t *testing.T) {
	t.Parallel()

	trips := newMemTripRepo()
	jobs := newMemJobRepo()
	trips.Save(context.Background(), nil, confirmedTrip("t1", "u1"))
	svc := usecase.NewJobService(jobs, trips, usecase.NopQueue{}, newTestLogger())

	if _, err := svc.Enqueue(context.Background(), "t1", "someone-else", model.JobTypePlan, 0); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Enqueue(context.Background(), "missing", "u1", model.JobTypePlan, 0); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestJobServiceEnqueueDistinctIDs(t *testing.T) {
	t.Parallel()

	trips := newMemTripRepo()
	jobs := newMemJobRepo()
	trips.Save(context.Background(), nil, confirmedTrip("t1", "u1"))
	svc := usecase.NewJobService(jobs, trips, usecase.NopQueue{}, newTestLogger())

	first, err := svc.Enqueue(context.Background(), "t1", "u1", model.JobTypePlan, 0)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	second, err := svc.Enqueue(context.Background(), "t1", "u1", model.JobTypeItinerary, 1)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("IDs collide: %s", first.ID)
	}
	if second.PlanIndex != 1 || second.Type != model.JobTypeItinerary {
		t.Fatalf("second job fields wrong: type=%s index=%d", second.Type, second.PlanIndex)
	}
}

func TestJobServicePollScopesToOwner(t *testing.T) {
	t.Parallel()

	trips := newMemTripRepo()
	jobs := newMemJobRepo()
	trips.Save(context.Background(), nil, confirmedTrip("t1", "u1"))
	svc := usecase.NewJobService(jobs, trips, usecase.NopQueue{}, newTestLogger())

	job, err := svc.Enqueue(context.Background(), "t1", "u1", model.JobTypePlan, 0)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	got, err := svc.Poll(context.Background(), job.ID, "u1")
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if got.ID != job.ID {
		t.Fatalf("polled wrong job: %s", got.ID)
	}

	if _, err := svc.Poll(context.Background(), job.ID, "intruder"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("cross-user poll err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Poll(context.Background(), "missing", "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing job err = %v, want ErrNotFound", err)
	}
}
