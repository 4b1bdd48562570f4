package repository

import (
	"context"

	"tripsmith/internal/domain/model"
)

type TripRepository interface {
	Save(ctx context.Context, tx Tx, trip *model.Trip) error
	// FindByIDAndUser scopes reads to the owning user.
	FindByIDAndUser(ctx context.Context, id, userID string) (*model.Trip, error)
	ConfirmConstraints(ctx context.Context, tx Tx, tripID string, constraints *model.Constraints) error
}
