package usecase

import (
	"context"
	"fmt"
	"time"

	"tripsmith/internal/domain"
	"tripsmith/internal/domain/model"
	"tripsmith/internal/domain/ports/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TripService owns trip records and the intake/confirm constraint flow.
type TripService struct {
	trips       repository.TripRepository
	plans       repository.PlanRepository
	itineraries repository.ItineraryRepository
	log         *zerolog.Logger
	now         func() time.Time
}

func NewTripService(trips repository.TripRepository, plans repository.PlanRepository, itineraries repository.ItineraryRepository, logger *zerolog.Logger) *TripService {
	l := logger.With().Str("component", "TripService").Logger()
	return &TripService{trips: trips, plans: plans, itineraries: itineraries, log: &l, now: time.Now}
}

// CreateTripParams is validated transport input.
type CreateTripParams struct {
	Origin       string
	Destination  string
	StartDate    time.Time
	EndDate      time.Time
	FlexibleDays int
	BudgetTotal  float64
	Currency     string
	Travelers    int
	Preferences  map[string]any
}

func (s *TripService) Create(ctx context.Context, userID string, p CreateTripParams) (*model.Trip, error) {
	if p.EndDate.Before(p.StartDate) {
		return nil, fmt.Errorf("%w: end_date must be >= start_date", domain.ErrInvalidArgument)
	}
	if p.Travelers < 1 {
		p.Travelers = 1
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	trip := &model.Trip{
		ID:           uuid.NewString(),
		UserID:       userID,
		CreatedAt:    s.now().UTC(),
		Origin:       p.Origin,
		Destination:  p.Destination,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		FlexibleDays: p.FlexibleDays,
		BudgetTotal:  p.BudgetTotal,
		Currency:     p.Currency,
		Travelers:    p.Travelers,
		Preferences:  p.Preferences,
	}
	if err := s.trips.Save(ctx, nil, trip); err != nil {
		return nil, fmt.Errorf("save trip: %w", err)
	}
	return trip, nil
}

func (s *TripService) Get(ctx context.Context, tripID, userID string) (*model.Trip, error) {
	return s.trips.FindByIDAndUser(ctx, tripID, userID)
}

// ConfirmConstraints derives constraints from preferences and marks them
// confirmed, unlocking plan generation.
func (s *TripService) ConfirmConstraints(ctx context.Context, tripID, userID string) (*model.Constraints, error) {
	trip, err := s.trips.FindByIDAndUser(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}
	constraints := GenerateConstraints(trip)
	if err := s.trips.ConfirmConstraints(ctx, nil, trip.ID, constraints); err != nil {
		return nil, fmt.Errorf("confirm constraints: %w", err)
	}
	return constraints, nil
}

// LatestPlan returns the newest plan for the trip, scoped to the owner.
func (s *TripService) LatestPlan(ctx context.Context, tripID, userID string) (*model.Plan, error) {
	if _, err := s.trips.FindByIDAndUser(ctx, tripID, userID); err != nil {
		return nil, err
	}
	return s.plans.FindLatestByTrip(ctx, tripID)
}

// LatestItinerary returns the newest itinerary for the trip.
func (s *TripService) LatestItinerary(ctx context.Context, tripID, userID string) (*model.Itinerary, error) {
	if _, err := s.trips.FindByIDAndUser(ctx, tripID, userID); err != nil {
		return nil, err
	}
	return s.itineraries.FindLatestByTrip(ctx, tripID)
}
