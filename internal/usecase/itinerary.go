package usecase

import (
	"context"
	"time"

	"tripsmith/internal/domain/model"
	"tripsmith/internal/domain/ports/provider"

	"github.com/rs/zerolog"
)

// defaultCenter seeds the routing chain when the trip carries no location
// preference.
var defaultCenter = model.GeoPoint{Lat: 48.8566, Lon: 2.3522}

const (
	poiSearchLimit     = 50
	dayStayMinutes     = 90
	eveningStayMinutes = 120
)

// ItineraryBuilder assigns points of interest to day/period slots with
// sequential commute estimates. Routing is deliberately serial: each
// estimate starts from the previous assignment's location, so the commute
// chain depends on assignment order.
type ItineraryBuilder struct {
	agg *Aggregator
	log *zerolog.Logger
	now func() time.Time
}

func NewItineraryBuilder(agg *Aggregator, logger *zerolog.Logger) *ItineraryBuilder {
	l := logger.With().Str("component", "ItineraryBuilder").Logger()
	return &ItineraryBuilder{agg: agg, log: &l, now: time.Now}
}

// ItineraryResult is the generated schedule, its rendering, and the number
// of daily-load issues still unresolved after the bounded correction pass.
type ItineraryResult struct {
	Itinerary        model.ItineraryJson
	RenderMD         string
	UnresolvedIssues int
}

// Generate builds the day-by-day schedule for the chosen plan variant.
func (b *ItineraryBuilder) Generate(ctx context.Context, trace *TraceRecorder, trip model.TripSnapshot, plan model.PlansJson, planIndex int) (ItineraryResult, error) {
	center := defaultCenter
	if pref, ok := trip.PreferredCenter(); ok {
		center = pref
	}

	pois, err := b.agg.SearchPois(ctx, trace, provider.PoiQuery{
		Destination: trip.Destination,
		Center:      center,
		Limit:       poiSearchLimit,
	})
	if err != nil {
		return ItineraryResult{}, err
	}

	weatherByDate := map[string]string{}
	days, err := b.agg.Forecast(ctx, trace, center, trip.StartDate, trip.EndDate)
	if err != nil {
		// Weather degrades to the per-date fallback string below.
		b.log.Warn().Err(err).Msg("forecast failed, itinerary continues without weather")
	}
	for _, d := range days {
		weatherByDate[d.Date] = d.Summary
	}

	var out []model.ItineraryDay
	idx := 0
	lastPoint := center
	for _, date := range trip.Dates() {
		weather, ok := weatherByDate[date]
		if !ok {
			weather = "Forecast unavailable"
		}
		items := make([]model.ItineraryItem, 0, len(model.DayPeriods))
		for _, period := range model.DayPeriods {
			poi := b.nextPoi(pois, idx, center)
			commute := b.commute(ctx, trace, lastPoint, poi.Location)
			stay := dayStayMinutes
			if period == model.PeriodEvening {
				stay = eveningStayMinutes
			}
			items = append(items, model.ItineraryItem{
				Period:         period,
				PoiName:        poi.Name,
				StayMinutes:    stay,
				Commute:        commute,
				WeatherSummary: weather,
			})
			lastPoint = poi.Location
			idx++
		}
		out = append(out, model.ItineraryDay{Date: date, Items: items})
	}

	it := model.ItineraryJson{GeneratedAt: b.now().UTC(), PlanIndex: planIndex, Days: out}

	unresolved := 0
	if issues := VerifyItinerary(it); len(issues) > 0 {
		b.log.Info().Strs("issues", issues).Msg("itinerary self-check flagged issues")
		unresolved = CorrectItinerary(&it)
	}

	return ItineraryResult{
		Itinerary:        it,
		RenderMD:         RenderItineraryMarkdown(trip, plan, planIndex, it),
		UnresolvedIssues: unresolved,
	}, nil
}

// nextPoi walks the candidate list round-robin, wrapping when the list is
// shorter than the slot count. Empty lists get a synthetic placeholder.
func (b *ItineraryBuilder) nextPoi(pois []model.PoiCandidate, idx int, center model.GeoPoint) model.PoiCandidate {
	if len(pois) == 0 {
		return model.PoiCandidate{ID: "poi", Name: "Free exploration", Location: center}
	}
	return pois[idx%len(pois)]
}

func (b *ItineraryBuilder) commute(ctx context.Context, trace *TraceRecorder, from, to model.GeoPoint) model.Commute {
	est, err := b.agg.EstimateRoute(ctx, trace, from, to, "transit")
	if err != nil {
		// Routing providers already fall back internally; this covers a
		// hard transport failure.
		return model.Commute{Mode: "estimate", Minutes: 15}
	}
	mode := "transit"
	if est.Mode == "estimate" {
		mode = "estimate"
	}
	return model.Commute{Mode: mode, Minutes: est.Minutes}
}
