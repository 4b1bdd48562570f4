//go:build !integration

package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"tripsmith/internal/domain"
	"tripsmith/internal/domain/model"
	"tripsmith/internal/domain/ports/repository"
	"tripsmith/internal/infra/redis"
	"tripsmith/internal/infra/web"
	"tripsmith/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

type memTripRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Trip
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
	return nil, domain.ErrNotFound
}

type memPlanRepo struct {
	mu    sync.RWMutex
	plans []*model.Plan
}

func (m *memPlanRepo) Create(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *plan
	m.plans = append(m.plans, &cp)
	return nil
}

func (m *memPlanRepo) FindLatestByTrip(ctx context.Context, tripID string) (*model.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *model.Plan
	for _, p := range m.plans {
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
	items []*model.Itinerary
}

func (m *memItineraryRepo) Create(ctx context.Context, tx repository.Tx, it *model.Itinerary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *it
	m.items = append(m.items, &cp)
	return nil
}

func (m *memItineraryRepo) FindLatestByTrip(ctx context.Context, tripID string) (*model.Itinerary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *model.Itinerary
	for _, it := range m.items {
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

type memAlertRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Alert
}

func (m *memAlertRepo) Save(ctx context.Context, tx repository.Tx, alert *model.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *alert
	m.store[alert.ID] = &cp
	return nil
}

func (m *memAlertRepo) ListActive(ctx context.Context) ([]*model.Alert, error) {
	return nil, nil
}

func (m *memAlertRepo) MarkChecked(ctx context.Context, tx repository.Tx, alertID string) error {
	return nil
}

type memNotificationRepo struct{}

func (memNotificationRepo) Append(ctx context.Context, tx repository.Tx, n *model.Notification) error {
	return nil
}

// fakeRedisClient backs the rate limiter with in-process counters.
type fakeRedisClient struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (f *fakeRedisClient) Ping(ctx context.Context) error { return nil }

func (f *fakeRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (f *fakeRedisClient) Get(ctx context.Context, key string) (string, error) {
	return "", goredis.Nil
}

func (f *fakeRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return nil
}

func (f *fakeRedisClient) Del(ctx context.Context, keys ...string) error { return nil }
func (f *fakeRedisClient) Close() error                                  { return nil }

type fixture struct {
	trips       *memTripRepo
	jobs        *memJobRepo
	plans       *memPlanRepo
	itineraries *memItineraryRepo
	handler     http.Handler
}

func newFixture(rateLimit int) *fixture {
	f := &fixture{
		trips:       &memTripRepo{store: map[string]*model.Trip{}},
		jobs:        &memJobRepo{store: map[string]*model.Job{}},
		plans:       &memPlanRepo{},
		itineraries: &memItineraryRepo{},
	}
	logger := newTestLogger()
	tripSvc := usecase.NewTripService(f.trips, f.plans, f.itineraries, logger)
	jobSvc := usecase.NewJobService(f.jobs, f.trips, usecase.NopQueue{}, logger)
	alertSvc := usecase.NewAlertService(&memAlertRepo{store: map[string]*model.Alert{}}, memNotificationRepo{}, logger)
	limiter := redis.NewRateLimiter(&fakeRedisClient{counts: map[string]int64{}})
	f.handler = web.NewServer(tripSvc, jobSvc, alertSvc, limiter, rateLimit, "", logger).Router()
	return f
}

func (f *fixture) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if user != "" {
		req.Header.Set("X-User-Id", user)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func seedTrip(f *fixture, id, user string) {
	now := time.Now().UTC()
	f.trips.store[id] = &model.Trip{
		ID:          id,
		UserID:      user,
		CreatedAt:   now,
		Origin:      "SFO",
		Destination: "PAR",
		StartDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		BudgetTotal: 1800,
		Currency:    "USD",
		Travelers:   2,
	}
}

func TestCreateTrip(t *testing.T) {
	t.Parallel()

	f := newFixture(5)
	rec := f.do(t, http.MethodPost, "/api/trips", "u1", map[string]any{
		"origin":       "SFO",
		"destination":  "PAR <script>",
		"start_date":   "2026-10-01",
		"end_date":     "2026-10-05",
		"budget_total": 1800,
		"travelers":    2,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["user_id"] != "u1" {
		t.Fatalf("user_id = %v", body["user_id"])
	}
	if body["id"] == "" || body["id"] == nil {
		t.Fatalf("missing trip id")
	}
	// Angle brackets are stripped by input sanitization.
	if dest := body["destination"].(string); strings.ContainsAny(dest, "<>") {
		t.Fatalf("destination not sanitized: %q", dest)
	}
	if body["constraints_confirmed"] != false {
		t.Fatalf("new trip must start unconfirmed")
	}
}

func TestCreateTripRejectsBadDates(t *testing.T) {
	t.Parallel()

	f := newFixture(5)
	rec := f.do(t, http.MethodPost, "/api/trips", "u1", map[string]any{
		"origin": "SFO", "destination": "PAR",
		"start_date": "2026-10-05", "end_date": "2026-10-01",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]any)
	if errObj["code"] != "bad_dates" {
		t.Fatalf("code = %v", errObj["code"])
	}
}

func TestGetTripScopedToOwner(t *testing.T) {
	t.Parallel()

	f := newFixture(5)
	seedTrip(f, "t1", "u1")

	rec := f.do(t, http.MethodGet, "/api/trips/t1", "u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	trip := body["trip"].(map[string]any)
	if trip["id"] != "t1" {
		t.Fatalf("trip id = %v", trip["id"])
	}
	if body["latest_plan_id"] != nil {
		t.Fatalf("no plan yet, got %v", body["latest_plan_id"])
	}

	if rec := f.do(t, http.MethodGet, "/api/trips/t1", "other", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("cross-user read status = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/trips/absent", "u1", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing trip status = %d", rec.Code)
	}
}

func TestGetTripIncludesLatestPlan(t *testing.T) {
	t.Parallel()

	f := newFixture(5)
	seedTrip(f, "t1", "u1")
	f.plans.Create(context.Background(), nil, &model.Plan{
		ID: "p1", TripID: "t1", CreatedAt: time.Now().UTC(),
		Plans:     model.PlansJson{Options: []model.PlanOption{{Label: "cheap"}, {Label: "fast"}, {Label: "balanced"}}},
		ExplainMD: "# TripSmith plans",
	})

	body := decodeBody(t, f.do(t, http.MethodGet, "/api/trips/t1", "u1", nil))
	if body["latest_plan_id"] != "p1" {
		t.Fatalf("latest_plan_id = %v", body["latest_plan_id"])
	}
	if body["latest_explain_md"] != "# TripSmith plans" {
		t.Fatalf("latest_explain_md = %v", body["latest_explain_md"])
	}
}

func TestConfirmConstraints(t *testing.T) {
	t.Parallel()

	f := newFixture(5)
	seedTrip(f, "t1", "u1")

	rec := f.do(t, http.MethodPost, "/api/trips/t1/constraints/confirm", "u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["constraints"] == nil {
		t.Fatalf("no constraints in response")
	}

	trip := decodeBody(t, f.do(t, http.MethodGet, "/api/trips/t1", "u1", nil))["trip"].(map[string]any)
	if trip["constraints_confirmed"] != true {
		t.Fatalf("trip not confirmed after confirm call")
	}
}

func TestCreatePlanJobReturnsAccepted(t *testing.T) {
	t.Parallel()

	f := newFixture(5)
	seedTrip(f, "t1", "u1")

	rec := f.do(t, http.MethodPost, "/api/trips/t1/plan", "u1", nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	jobID, ok := decodeBody(t, rec)["job_id"].(string)
	if !ok || jobID == "" {
		t.Fatalf("missing job_id")
	}

	jobRec := f.do(t, http.MethodGet, "/api/jobs/"+jobID, "u1", nil)
	if jobRec.Code != http.StatusOK {
		t.Fatalf("poll status = %d", jobRec.Code)
	}
	job := decodeBody(t, jobRec)
	if job["status"] != "queued" || job["stage"] != "QUEUED" {
		t.Fatalf("job state = %v/%v", job["status"], job["stage"])
	}
}

func TestCreatePlanJobRateLimited(t *testing.T) {
	t.Parallel()

	f := newFixture(2)
	seedTrip(f, "t1", "u1")

	for i := 0; i < 2; i++ {
		if rec := f.do(t, http.MethodPost, "/api/trips/t1/plan", "u1", nil); rec.Code != http.StatusAccepted {
			t.Fatalf("request %d status = %d", i+1, rec.Code)
		}
	}

	rec := f.do(t, http.MethodPost, "/api/trips/t1/plan", "u1", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After header")
	}
	errObj := decodeBody(t, rec)["error"].(map[string]any)
	if errObj["code"] != "rate_limited" {
		t.Fatalf("code = %v", errObj["code"])
	}

	// Another user still gets through.
	seedTrip(f, "t2", "u2")
	if rec := f.do(t, http.MethodPost, "/api/trips/t2/plan", "u2", nil); rec.Code != http.StatusAccepted {
		t.Fatalf("other user status = %d", rec.Code)
	}
}

func TestCreateItineraryJobValidatesPlanIndex(t *testing.T) {
	t.Parallel()

	f := newFixture(5)
	seedTrip(f, "t1", "u1")

	rec := f.do(t, http.MethodPost, "/api/trips/t1/itinerary", "u1", map[string]any{"plan_index": 5})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/api/trips/t1/itinerary", "u1", map[string]any{"plan_index": 2})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestExportRequiresItinerary(t *testing.T) {
	t.Parallel()

	f := newFixture(5)
	seedTrip(f, "t1", "u1")

	rec := f.do(t, http.MethodGet, "/api/trips/t1/export/ics", "u1", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	errObj := decodeBody(t, rec)["error"].(map[string]any)
	if errObj["code"] != "no_itinerary" {
		t.Fatalf("code = %v", errObj["code"])
	}
}

func TestExportICSAndMarkdown(t *testing.T) {
	t.Parallel()

	f := newFixture(5)
	seedTrip(f, "t1", "u1")
	f.itineraries.Create(context.Background(), nil, &model.Itinerary{
		ID: "i1", TripID: "t1", CreatedAt: time.Now().UTC(),
		Days: model.ItineraryJson{Days: []model.ItineraryDay{{
			Date: "2026-10-01",
			Items: []model.ItineraryItem{
				{Period: model.PeriodMorning, PoiName: "Louvre", StayMinutes: 120},
			},
		}}},
		RenderMD: "# Itinerary\n\n## 2026-10-01",
	})

	rec := f.do(t, http.MethodGet, "/api/trips/t1/export/ics", "u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ics status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/calendar" {
		t.Fatalf("ics content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "SUMMARY:Louvre") {
		t.Fatalf("ics missing event:\n%s", rec.Body.String())
	}

	rec = f.do(t, http.MethodGet, "/api/trips/t1/export/md", "u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("md status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/markdown" {
		t.Fatalf("md content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "## 2026-10-01") {
		t.Fatalf("md body = %q", rec.Body.String())
	}
}

func TestCreateAlert(t *testing.T) {
	t.Parallel()

	f := newFixture(5)
	seedTrip(f, "t1", "u1")

	rec := f.do(t, http.MethodPost, "/api/alerts", "u1", map[string]any{
		"trip_id": "t1", "type": "flight", "threshold": 220, "frequency_minutes": 30,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	alert := decodeBody(t, rec)["alert"].(map[string]any)
	if alert["type"] != "flight" || alert["is_active"] != true {
		t.Fatalf("alert = %v", alert)
	}

	rec = f.do(t, http.MethodPost, "/api/alerts", "u1", map[string]any{
		"trip_id": "t1", "type": "cruise", "threshold": 100,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad type status = %d", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/api/alerts", "other", map[string]any{
		"trip_id": "t1", "type": "flight", "threshold": 100,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign trip status = %d", rec.Code)
	}
}

func TestAnonymousUserDefault(t *testing.T) {
	t.Parallel()

	f := newFixture(5)
	rec := f.do(t, http.MethodPost, "/api/trips", "", map[string]any{
		"origin": "SFO", "destination": "PAR",
		"start_date": "2026-10-01", "end_date": "2026-10-05",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if decodeBody(t, rec)["user_id"] != "anonymous" {
		t.Fatalf("user_id = %v", decodeBody(t, rec)["user_id"])
	}
}
