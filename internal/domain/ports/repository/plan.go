package repository

import (
	"context"

	"tripsmith/internal/domain/model"
)

// PlanRepository is write-once for generated plans. FindLatestByTrip takes
// the newest row, so concurrent generations resolve last-write-wins.
type PlanRepository interface {
	Create(ctx context.Context, tx Tx, plan *model.Plan) error
	FindLatestByTrip(ctx context.Context, tripID string) (*model.Plan, error)
}

type ItineraryRepository interface {
	Create(ctx context.Context, tx Tx, it *model.Itinerary) error
	FindLatestByTrip(ctx context.Context, tripID string) (*model.Itinerary, error)
}
