//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tripsmith/internal/domain"
	"tripsmith/internal/domain/model"
	"tripsmith/internal/domain/ports/provider"
	"tripsmith/internal/domain/ports/repository"
	"tripsmith/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// ---------------- in-memory repositories ----------------

type memTripRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Trip
}

func newMemTripRepo() *memTripRepo {
	return &memTripRepo{store: map[string]*model.Trip{}}
}

func (m *memTripRepo) Save(ctx context.Context, tx repository.Tx, trip *model.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *trip
	m.store[trip.ID] = &cp
	return nil
}

func (m *memTripRepo) FindByIDAndUser(ctx context.Context, id, userID string) (*model.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.store[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTripRepo) ConfirmConstraints(ctx context.Context, tx repository.Tx, tripID string, constraints *model.Constraints) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[tripID]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now().UTC()
	t.Constraints = constraints
	t.ConstraintsConfirmedAt = &now
	return nil
}

type memJobRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Job
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{store: map[string]*model.Job{}}
}

func (m *memJobRepo) Save(ctx context.Context, tx repository.Tx, job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.store[job.ID] = &cp
	return nil
}

func (m *memJobRepo) FindByID(ctx context.Context, id string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *memJobRepo) FetchAndMarkRunning(ctx context.Context) (*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var queued []*model.Job
	for _, j := range m.store {
		if j.Status == model.JobStatusQueued {
			queued = append(queued, j)
		}
	}
	if len(queued) == 0 {
		return nil, domain.ErrNotFound
	}
	sort.Slice(queued, func(i, k int) bool { return queued[i].CreatedAt.Before(queued[k].CreatedAt) })
	queued[0].Status = model.JobStatusRunning
	cp := *queued[0]
	return &cp, nil
}

type memPlanRepo struct {
	mu    sync.RWMutex
	store []*model.Plan
}

func newMemPlanRepo() *memPlanRepo { return &memPlanRepo{} }

func (m *memPlanRepo) Create(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *plan
	m.store = append(m.store, &cp)
	return nil
}

func (m *memPlanRepo) FindLatestByTrip(ctx context.Context, tripID string) (*model.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *model.Plan
	for _, p := range m.store {
		if p.TripID != tripID {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

type memItineraryRepo struct {
	mu    sync.RWMutex
	store []*model.Itinerary
}

func newMemItineraryRepo() *memItineraryRepo { return &memItineraryRepo{} }

func (m *memItineraryRepo) Create(ctx context.Context, tx repository.Tx, it *model.Itinerary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *it
	m.store = append(m.store, &cp)
	return nil
}

func (m *memItineraryRepo) FindLatestByTrip(ctx context.Context, tripID string) (*model.Itinerary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *model.Itinerary
	for _, it := range m.store {
		if it.TripID != tripID {
			continue
		}
		if latest == nil || it.CreatedAt.After(latest.CreatedAt) {
			latest = it
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

type memAgentRunRepo struct {
	mu   sync.RWMutex
	runs []*model.AgentRun
}

func newMemAgentRunRepo() *memAgentRunRepo { return &memAgentRunRepo{} }

func (m *memAgentRunRepo) Append(ctx context.Context, tx repository.Tx, run *model.AgentRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *run
	m.runs = append(m.runs, &cp)
	return nil
}

type memAlertRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Alert
}

func newMemAlertRepo() *memAlertRepo { return &memAlertRepo{store: map[string]*model.Alert{}} }

func (m *memAlertRepo) Save(ctx context.Context, tx repository.Tx, alert *model.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *alert
	m.store[alert.ID] = &cp
	return nil
}

func (m *memAlertRepo) ListActive(ctx context.Context) ([]*model.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Alert
	for _, a := range m.store {
		if a.IsActive {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAlertRepo) MarkChecked(ctx context.Context, tx repository.Tx, alertID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.store[alertID]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now().UTC()
	a.LastCheckedAt = &now
	return nil
}

type memNotificationRepo struct {
	mu   sync.RWMutex
	sent []*model.Notification
}

func newMemNotificationRepo() *memNotificationRepo { return &memNotificationRepo{} }

func (m *memNotificationRepo) Append(ctx context.Context, tx repository.Tx, n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *n
	m.sent = append(m.sent, &cp)
	return nil
}

// ---------------- provider stubs ----------------

type stubFlights struct {
	data  []model.FlightCandidate
	err   error
	calls int
}

func (s *stubFlights) Search(ctx context.Context, q provider.FlightQuery) ([]model.FlightCandidate, error) {
	s.calls++
	return s.data, s.err
}

type stubStays struct {
	data  []model.StayCandidate
	err   error
	calls int
}

func (s *stubStays) Search(ctx context.Context, q provider.StayQuery) ([]model.StayCandidate, error) {
	s.calls++
	return s.data, s.err
}

type stubPoi struct {
	data      []model.PoiCandidate
	err       error
	calls     int
	lastQuery provider.PoiQuery
}

func (s *stubPoi) Search(ctx context.Context, q provider.PoiQuery) ([]model.PoiCandidate, error) {
	s.calls++
	s.lastQuery = q
	return s.data, s.err
}

type stubWeather struct {
	data []model.WeatherDay
	err  error
}

func (s *stubWeather) Forecast(ctx context.Context, center model.GeoPoint, startDate, endDate string) ([]model.WeatherDay, error) {
	return s.data, s.err
}

type stubRouting struct {
	minutes int
	err     error
}

func (s *stubRouting) Estimate(ctx context.Context, from, to model.GeoPoint, mode string) (model.RouteEstimate, error) {
	if s.err != nil {
		return model.RouteEstimate{}, s.err
	}
	return model.RouteEstimate{Mode: mode, Minutes: s.minutes}, nil
}

// memCache is a pass-through ProviderCache with hit bookkeeping.
type memCache struct {
	mu       sync.Mutex
	store    map[string][]byte
	computes int
}

func newMemCache() *memCache { return &memCache{store: map[string][]byte{}} }

func (m *memCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.store[key]; ok {
		return v, nil
	}
	m.computes++
	v, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	m.store[key] = v
	return v, nil
}

func rawKey(namespace string, payload any) string {
	return namespace // per-namespace keying is enough for these tests
}

func newTestAggregator(set provider.Set, cache *memCache) *usecase.Aggregator {
	return usecase.NewAggregator(set, cache, rawKey, newTestLogger())
}

// defaultProviderSet returns deterministic candidates for pipeline tests.
func defaultProviderSet() provider.Set {
	return provider.Set{
		Flights: &stubFlights{data: []model.FlightCandidate{
			{ID: "f1", DepartAt: "2026-10-01T08:00:00Z", ArriveAt: "2026-10-01T14:00:00Z", Stops: 0, DurationMinutes: 360, PriceAmount: 450, Currency: "USD"},
			{ID: "f2", DepartAt: "2026-10-01T06:00:00Z", ArriveAt: "2026-10-01T13:30:00Z", Stops: 1, DurationMinutes: 450, PriceAmount: 300, Currency: "USD"},
		}},
		Stays: &stubStays{data: []model.StayCandidate{
			{ID: "s1", Name: "Hotel Lumier", Area: "Center", Location: model.GeoPoint{Lat: 48.85, Lon: 2.35}, NightlyPriceAmount: 104, TotalPriceAmount: 520, Currency: "USD"},
			{ID: "s2", Name: "Le Petit", Area: "Montmartre", Location: model.GeoPoint{Lat: 48.88, Lon: 2.34}, NightlyPriceAmount: 80, TotalPriceAmount: 400, Currency: "USD"},
		}},
		Poi: &stubPoi{data: []model.PoiCandidate{
			{ID: "p1", Name: "Louvre", Location: model.GeoPoint{Lat: 48.8606, Lon: 2.3376}},
			{ID: "p2", Name: "Orsay", Location: model.GeoPoint{Lat: 48.86, Lon: 2.3266}},
		}},
		Weather: &stubWeather{},
		Routing: &stubRouting{minutes: 20},
	}
}

func confirmedTrip(id, userID string) *model.Trip {
	now := time.Now().UTC()
	return &model.Trip{
		ID:                     id,
		UserID:                 userID,
		CreatedAt:              now,
		Origin:                 "SFO",
		Destination:            "PAR",
		StartDate:              time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:                time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		BudgetTotal:            800,
		Currency:               "USD",
		Travelers:              1,
		Preferences:            map[string]any{},
		Constraints:            &model.Constraints{Pace: "balanced"},
		ConstraintsConfirmedAt: &now,
	}
}
