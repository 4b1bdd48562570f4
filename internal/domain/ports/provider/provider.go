package provider

import (
	"context"

	"tripsmith/internal/domain/model"
)

// Query parameter bundles are plain values so the aggregator can
// canonicalize them into cache keys.

type FlightQuery struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Travelers   int    `json:"travelers"`
}

type StayQuery struct {
	Destination string  `json:"destination"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Travelers   int     `json:"travelers"`
	BudgetTotal float64 `json:"budget_total"`
}

type PoiQuery struct {
	Destination string         `json:"destination"`
	Center      model.GeoPoint `json:"center"`
	Limit       int            `json:"limit"`
}

// FlightsProvider returns a bounded candidate list (implementations
// truncate to their own top-N).
type FlightsProvider interface {
	Search(ctx context.Context, q FlightQuery) ([]model.FlightCandidate, error)
}

type StaysProvider interface {
	Search(ctx context.Context, q StayQuery) ([]model.StayCandidate, error)
}

type PoiProvider interface {
	Search(ctx context.Context, q PoiQuery) ([]model.PoiCandidate, error)
}

type WeatherProvider interface {
	Forecast(ctx context.Context, center model.GeoPoint, startDate, endDate string) ([]model.WeatherDay, error)
}

type RoutingProvider interface {
	Estimate(ctx context.Context, from, to model.GeoPoint, mode string) (model.RouteEstimate, error)
}

// Set is the resolved capability bundle handed to the aggregator. Resolution
// happens once at startup; an unconfigured capability fails there, not on
// first use.
type Set struct {
	Flights FlightsProvider
	Stays   StaysProvider
	Poi     PoiProvider
	Weather WeatherProvider
	Routing RoutingProvider
}
