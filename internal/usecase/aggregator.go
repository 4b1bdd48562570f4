package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tripsmith/internal/domain/model"
	"tripsmith/internal/domain/ports/provider"
	"tripsmith/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Cache-aside TTLs per namespace.
const (
	flightsCacheTTL = 30 * time.Minute
	staysCacheTTL   = 30 * time.Minute
	poiCacheTTL     = 60 * time.Minute
)

// ProviderCache is the string cache-aside store the aggregator shields
// providers with. Implemented by the Redis cache.
type ProviderCache interface {
	GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) ([]byte, error)) ([]byte, error)
}

// CacheKeyFunc derives the namespaced cache key from a request payload.
type CacheKeyFunc func(namespace string, payload any) string

// Aggregator fans requests out to the configured capability set, caching
// flights/stays/poi lookups and recording a redacted trace entry per call.
type Aggregator struct {
	providers provider.Set
	cache     ProviderCache
	cacheKey  CacheKeyFunc
	log       *zerolog.Logger
}

func NewAggregator(providers provider.Set, cache ProviderCache, cacheKey CacheKeyFunc, logger *zerolog.Logger) *Aggregator {
	aggLog := logger.With().Str("component", "Aggregator").Logger()
	return &Aggregator{providers: providers, cache: cache, cacheKey: cacheKey, log: &aggLog}
}

func (a *Aggregator) SearchFlights(ctx context.Context, trace *TraceRecorder, q provider.FlightQuery) ([]model.FlightCandidate, error) {
	start := time.Now()
	raw, err := a.cache.GetOrCompute(ctx, a.cacheKey("flights", q), flightsCacheTTL, func(ctx context.Context) ([]byte, error) {
		results, err := a.providers.Flights.Search(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("flights search: %w", err)
		}
		return json.Marshal(results)
	})
	latency := time.Since(start)
	if err != nil {
		metrics.ObserveProviderCall("flights_search", "error", latency.Seconds())
		trace.Record("flights_search", q, "error: "+Redact(err.Error()), latency)
		return nil, err
	}
	var flights []model.FlightCandidate
	if err := json.Unmarshal(raw, &flights); err != nil {
		return nil, fmt.Errorf("decode cached flights: %w", err)
	}
	metrics.ObserveProviderCall("flights_search", "ok", latency.Seconds())
	trace.Record("flights_search", q, SummarizeNames(len(flights), flightIDs(flights)), latency)
	a.log.Debug().Int("count", len(flights)).Dur("latency", latency).Msg("flights fetched")
	return flights, nil
}

func (a *Aggregator) SearchStays(ctx context.Context, trace *TraceRecorder, q provider.StayQuery) ([]model.StayCandidate, error) {
	start := time.Now()
	raw, err := a.cache.GetOrCompute(ctx, a.cacheKey("stays", q), staysCacheTTL, func(ctx context.Context) ([]byte, error) {
		results, err := a.providers.Stays.Search(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("stays search: %w", err)
		}
		return json.Marshal(results)
	})
	latency := time.Since(start)
	if err != nil {
		metrics.ObserveProviderCall("stays_search", "error", latency.Seconds())
		trace.Record("stays_search", q, "error: "+Redact(err.Error()), latency)
		return nil, err
	}
	var stays []model.StayCandidate
	if err := json.Unmarshal(raw, &stays); err != nil {
		return nil, fmt.Errorf("decode cached stays: %w", err)
	}
	metrics.ObserveProviderCall("stays_search", "ok", latency.Seconds())
	trace.Record("stays_search", q, SummarizeNames(len(stays), stayNames(stays)), latency)
	a.log.Debug().Int("count", len(stays)).Dur("latency", latency).Msg("stays fetched")
	return stays, nil
}

func (a *Aggregator) SearchPois(ctx context.Context, trace *TraceRecorder, q provider.PoiQuery) ([]model.PoiCandidate, error) {
	start := time.Now()
	raw, err := a.cache.GetOrCompute(ctx, a.cacheKey("poi", q), poiCacheTTL, func(ctx context.Context) ([]byte, error) {
		results, err := a.providers.Poi.Search(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("poi search: %w", err)
		}
		return json.Marshal(results)
	})
	latency := time.Since(start)
	if err != nil {
		metrics.ObserveProviderCall("poi_search", "error", latency.Seconds())
		trace.Record("poi_search", q, "error: "+Redact(err.Error()), latency)
		return nil, err
	}
	var pois []model.PoiCandidate
	if err := json.Unmarshal(raw, &pois); err != nil {
		return nil, fmt.Errorf("decode cached pois: %w", err)
	}
	metrics.ObserveProviderCall("poi_search", "ok", latency.Seconds())
	trace.Record("poi_search", q, SummarizeNames(len(pois), poiNames(pois)), latency)
	return pois, nil
}

// Forecast is not cached: the upstream already degrades to a placeholder
// forecast on failure, so a stale cache buys nothing.
func (a *Aggregator) Forecast(ctx context.Context, trace *TraceRecorder, center model.GeoPoint, startDate, endDate string) ([]model.WeatherDay, error) {
	start := time.Now()
	days, err := a.providers.Weather.Forecast(ctx, center, startDate, endDate)
	latency := time.Since(start)
	input := map[string]any{"center": center, "start_date": startDate, "end_date": endDate}
	if err != nil {
		metrics.ObserveProviderCall("weather_forecast", "error", latency.Seconds())
		trace.Record("weather_forecast", input, "error: "+Redact(err.Error()), latency)
		return nil, err
	}
	metrics.ObserveProviderCall("weather_forecast", "ok", latency.Seconds())
	trace.Record("weather_forecast", input, SummarizeNames(len(days), weatherDates(days)), latency)
	return days, nil
}

func (a *Aggregator) EstimateRoute(ctx context.Context, trace *TraceRecorder, from, to model.GeoPoint, mode string) (model.RouteEstimate, error) {
	start := time.Now()
	est, err := a.providers.Routing.Estimate(ctx, from, to, mode)
	latency := time.Since(start)
	input := map[string]any{"from": from, "to": to, "mode": mode}
	if err != nil {
		metrics.ObserveProviderCall("route_estimate", "error", latency.Seconds())
		trace.Record("route_estimate", input, "error: "+Redact(err.Error()), latency)
		return model.RouteEstimate{}, err
	}
	metrics.ObserveProviderCall("route_estimate", "ok", latency.Seconds())
	trace.Record("route_estimate", input, fmt.Sprintf("%s %dmin", est.Mode, est.Minutes), latency)
	return est, nil
}

func flightIDs(flights []model.FlightCandidate) []string {
	out := make([]string, 0, len(flights))
	for _, f := range flights {
		out = append(out, f.ID)
	}
	return out
}

func stayNames(stays []model.StayCandidate) []string {
	out := make([]string, 0, len(stays))
	for _, s := range stays {
		out = append(out, s.Name)
	}
	return out
}

func poiNames(pois []model.PoiCandidate) []string {
	out := make([]string, 0, len(pois))
	for _, p := range pois {
		out = append(out, p.Name)
	}
	return out
}

func weatherDates(days []model.WeatherDay) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Date)
	}
	return out
}
