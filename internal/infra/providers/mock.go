package providers

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"

	"tripsmith/internal/domain/model"
	"tripsmith/internal/domain/ports/provider"
)

// Deterministic offline providers. The seed derives from the search
// parameters so repeated queries return identical candidate sets, which
// both demos and the cache layer depend on.

func seed(parts ...string) int64 {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte("|"))
		}
		h.Write([]byte(p))
	}
	return int64(binary.BigEndian.Uint32(h.Sum(nil)[:4]))
}

type MockFlightsProvider struct{}

var _ provider.FlightsProvider = (*MockFlightsProvider)(nil)

func (MockFlightsProvider) Search(ctx context.Context, q provider.FlightQuery) ([]model.FlightCandidate, error) {
	rng := rand.New(rand.NewSource(seed("flights", q.Origin, q.Destination, q.StartDate, q.EndDate, fmt.Sprint(q.Travelers))))
	basePrice := 120 + rng.Intn(361)
	stopChoices := []int{0, 0, 1, 1, 2}

	results := make([]model.FlightCandidate, 0, 12)
	for i := 0; i < 12; i++ {
		stops := stopChoices[rng.Intn(len(stopChoices))]
		duration := 4*60 + rng.Intn(12*60+1)
		if stops > 0 {
			duration += stops * (30 + rng.Intn(91))
		}
		depart, _ := time.Parse("2006-01-02", q.StartDate)
		depart = depart.Add(time.Duration(6+rng.Intn(15)) * time.Hour)
		arrive := depart.Add(time.Duration(duration) * time.Minute)
		price := (basePrice + rng.Intn(201) - 40 + stops*(rng.Intn(41)-10)) * q.Travelers
		results = append(results, model.FlightCandidate{
			ID:              fmt.Sprintf("mock_f_%d", i),
			DepartAt:        depart.Format(time.RFC3339),
			ArriveAt:        arrive.Format(time.RFC3339),
			Stops:           stops,
			DurationMinutes: duration,
			PriceAmount:     float64(price),
			Currency:        "USD",
		})
	}
	return results, nil
}

type MockStaysProvider struct{}

var _ provider.StaysProvider = (*MockStaysProvider)(nil)

var mockAreas = []string{"City Center", "Old Town", "Riverside", "Museum District", "Business Area"}

func (MockStaysProvider) Search(ctx context.Context, q provider.StayQuery) ([]model.StayCandidate, error) {
	rng := rand.New(rand.NewSource(seed("stays", q.Destination, q.StartDate, q.EndDate, fmt.Sprint(q.Travelers), fmt.Sprint(int(q.BudgetTotal)))))
	start, _ := time.Parse("2006-01-02", q.StartDate)
	end, _ := time.Parse("2006-01-02", q.EndDate)
	nights := int(end.Sub(start).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	center := model.GeoPoint{
		Lat: 48.80 + rng.Float64()*0.10,
		Lon: 2.25 + rng.Float64()*0.17,
	}

	results := make([]model.StayCandidate, 0, 12)
	for i := 0; i < 12; i++ {
		nightly := 60 + rng.Intn(201)
		results = append(results, model.StayCandidate{
			ID:   fmt.Sprintf("mock_s_%d", i),
			Name: fmt.Sprintf("Mock Stay %d", i+1),
			Area: mockAreas[rng.Intn(len(mockAreas))],
			Location: model.GeoPoint{
				Lat: center.Lat + (rng.Float64()*0.04 - 0.02),
				Lon: center.Lon + (rng.Float64()*0.06 - 0.03),
			},
			NightlyPriceAmount: float64(nightly),
			TotalPriceAmount:   float64(nightly * nights),
			Currency:           "USD",
		})
	}
	return results, nil
}

type MockPoiProvider struct{}

var _ provider.PoiProvider = (*MockPoiProvider)(nil)

var mockPoiNames = []string{
	"Historic Square", "City Museum", "Local Market", "Riverside Walk",
	"Modern Art Gallery", "Cathedral", "Botanical Garden", "Food Street",
	"Viewpoint", "Neighborhood Cafe",
}

func (MockPoiProvider) Search(ctx context.Context, q provider.PoiQuery) ([]model.PoiCandidate, error) {
	rng := rand.New(rand.NewSource(seed("poi", q.Destination, fmt.Sprintf("%.3f", q.Center.Lat), fmt.Sprintf("%.3f", q.Center.Lon))))
	n := q.Limit
	if n > 50 {
		n = 50
	}
	results := make([]model.PoiCandidate, 0, n)
	for i := 0; i < n; i++ {
		results = append(results, model.PoiCandidate{
			ID:   fmt.Sprintf("mock_p_%d", i),
			Name: fmt.Sprintf("%s %d", mockPoiNames[i%len(mockPoiNames)], i+1),
			Location: model.GeoPoint{
				Lat: q.Center.Lat + (rng.Float64()*0.06 - 0.03),
				Lon: q.Center.Lon + (rng.Float64()*0.08 - 0.04),
			},
		})
	}
	return results, nil
}

type MockWeatherProvider struct{}

var _ provider.WeatherProvider = (*MockWeatherProvider)(nil)

func (MockWeatherProvider) Forecast(ctx context.Context, center model.GeoPoint, startDate, endDate string) ([]model.WeatherDay, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("bad start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("bad end date: %w", err)
	}
	days := int(end.Sub(start).Hours()/24) + 1
	results := make([]model.WeatherDay, 0, days)
	for i := 0; i < days; i++ {
		results = append(results, model.WeatherDay{
			Date:    start.AddDate(0, 0, i).Format("2006-01-02"),
			Summary: "Mild, partly cloudy",
		})
	}
	return results, nil
}

type MockRoutingProvider struct{}

var _ provider.RoutingProvider = (*MockRoutingProvider)(nil)

func (MockRoutingProvider) Estimate(ctx context.Context, from, to model.GeoPoint, mode string) (model.RouteEstimate, error) {
	return model.RouteEstimate{Mode: "estimate", Minutes: haversineMinutes(from, to, speedKmh(mode))}, nil
}
