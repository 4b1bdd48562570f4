package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"tripsmith/internal/domain"
	"tripsmith/internal/domain/model"
	"tripsmith/internal/export"
	"tripsmith/internal/usecase"
)

const dateLayout = "2006-01-02"

// Free text inputs keep word characters and common punctuation only.
var safeTextRe = regexp.MustCompile(`[^\w\s,.;:/+\-()#]`)

func sanitizeText(v string) string {
	v = strings.TrimSpace(v)
	v = safeTextRe.ReplaceAllString(v, "")
	if len(v) > 256 {
		v = v[:256]
	}
	return v
}

func userID(r *http.Request) string {
	id := sanitizeText(r.Header.Get("X-User-Id"))
	if id == "" {
		return "anonymous"
	}
	return id
}

type errorBody struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	NextAction string `json:"next_action,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{"error": errorBody{Code: code, Message: message}})
}

// mapError translates domain sentinels onto HTTP statuses.
func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// checkRateLimit enforces the per-user fixed window on generation routes.
// Returns false after writing the 429 when the caller is over the limit.
func (s *Server) checkRateLimit(w http.ResponseWriter, r *http.Request, route string) bool {
	rl, err := s.limiter.Check(r.Context(), userID(r), route, s.rateLimitPerMinute)
	if err != nil {
		s.log.Error().Err(err).Str("route", route).Msg("rate limit check failed")
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return false
	}
	if !rl.Allowed {
		w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfterSeconds))
		writeError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests")
		return false
	}
	return true
}

type tripDTO struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	CreatedAt    time.Time      `json:"created_at"`
	Origin       string         `json:"origin"`
	Destination  string         `json:"destination"`
	StartDate    string         `json:"start_date"`
	EndDate      string         `json:"end_date"`
	FlexibleDays int            `json:"flexible_days"`
	BudgetTotal  float64        `json:"budget_total"`
	Currency     string         `json:"currency"`
	Travelers    int            `json:"travelers"`
	Preferences  map[string]any `json:"preferences"`

	Constraints          *model.Constraints `json:"constraints,omitempty"`
	ConstraintsConfirmed bool               `json:"constraints_confirmed"`
}

func toTripDTO(t *model.Trip) tripDTO {
	prefs := t.Preferences
	if prefs == nil {
		prefs = map[string]any{}
	}
	return tripDTO{
		ID:           t.ID,
		UserID:       t.UserID,
		CreatedAt:    t.CreatedAt,
		Origin:       t.Origin,
		Destination:  t.Destination,
		StartDate:    t.StartDate.Format(dateLayout),
		EndDate:      t.EndDate.Format(dateLayout),
		FlexibleDays: t.FlexibleDays,
		BudgetTotal:  t.BudgetTotal,
		Currency:     t.Currency,
		Travelers:    t.Travelers,
		Preferences:  prefs,

		Constraints:          t.Constraints,
		ConstraintsConfirmed: t.ConstraintsConfirmed(),
	}
}

type jobDTO struct {
	ID       string         `json:"id"`
	TripID   string         `json:"trip_id"`
	Type     string         `json:"type"`
	Status   string         `json:"status"`
	Stage    string         `json:"stage"`
	Progress int            `json:"progress"`
	Message  string         `json:"message,omitempty"`
	Result   map[string]any `json:"result,omitempty"`
	Error    *errorBody     `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toJobDTO(j *model.Job) jobDTO {
	dto := jobDTO{
		ID:        j.ID,
		TripID:    j.TripID,
		Type:      string(j.Type),
		Status:    string(j.Status),
		Stage:     string(j.Stage),
		Progress:  j.Progress,
		Message:   j.Message,
		Result:    j.Result,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
	if j.ErrorCode != "" {
		dto.Error = &errorBody{Code: j.ErrorCode, Message: j.ErrorMessage, NextAction: j.NextAction}
	}
	return dto
}

type createTripRequest struct {
	Origin       string         `json:"origin"`
	Destination  string         `json:"destination"`
	StartDate    string         `json:"start_date"`
	EndDate      string         `json:"end_date"`
	FlexibleDays int            `json:"flexible_days"`
	BudgetTotal  float64        `json:"budget_total"`
	Currency     string         `json:"currency"`
	Travelers    int            `json:"travelers"`
	Preferences  map[string]any `json:"preferences"`
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_dates", "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_dates", "end_date must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "bad_dates", "end_date must be >= start_date")
		return
	}

	trip, err := s.trips.Create(r.Context(), userID(r), usecase.CreateTripParams{
		Origin:       sanitizeText(req.Origin),
		Destination:  sanitizeText(req.Destination),
		StartDate:    start,
		EndDate:      end,
		FlexibleDays: req.FlexibleDays,
		BudgetTotal:  req.BudgetTotal,
		Currency:     sanitizeText(req.Currency),
		Travelers:    req.Travelers,
		Preferences:  req.Preferences,
	})
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTripDTO(trip))
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	trip, err := s.trips.Get(r.Context(), tripID, userID(r))
	if err != nil {
		mapError(w, err)
		return
	}

	resp := map[string]any{
		"trip":              toTripDTO(trip),
		"latest_plan_id":    nil,
		"latest_plans":      nil,
		"latest_explain_md": nil,
	}
	plan, err := s.trips.LatestPlan(r.Context(), tripID, userID(r))
	if err == nil {
		resp["latest_plan_id"] = plan.ID
		resp["latest_plans"] = plan.Plans
		resp["latest_explain_md"] = plan.ExplainMD
	} else if !errors.Is(err, domain.ErrNotFound) {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConfirmConstraints(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	constraints, err := s.trips.ConfirmConstraints(r.Context(), tripID, userID(r))
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"constraints": constraints})
}

func (s *Server) handleCreatePlanJob(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	if _, err := s.trips.Get(r.Context(), tripID, userID(r)); err != nil {
		mapError(w, err)
		return
	}
	if !s.checkRateLimit(w, r, "plan") {
		return
	}

	job, err := s.jobs.Enqueue(r.Context(), tripID, userID(r), model.JobTypePlan, 0)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"job_id": job.ID})
}

type createItineraryRequest struct {
	PlanIndex int `json:"plan_index"`
}

func (s *Server) handleCreateItineraryJob(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	var req createItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.PlanIndex < 0 || req.PlanIndex > 2 {
		writeError(w, http.StatusBadRequest, "bad_plan_index", "plan_index out of range")
		return
	}
	if _, err := s.trips.Get(r.Context(), tripID, userID(r)); err != nil {
		mapError(w, err)
		return
	}
	if !s.checkRateLimit(w, r, "itinerary") {
		return
	}

	job, err := s.jobs.Enqueue(r.Context(), tripID, userID(r), model.JobTypeItinerary, req.PlanIndex)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"job_id": job.ID})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job, err := s.jobs.Poll(r.Context(), jobID, userID(r))
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobDTO(job))
}

func (s *Server) handleExportICS(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	it, err := s.trips.LatestItinerary(r.Context(), tripID, userID(r))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "no_itinerary", "itinerary required")
			return
		}
		mapError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar")
	_, _ = w.Write([]byte(export.ToICS(tripID, it.Days, time.Now())))
}

func (s *Server) handleExportMD(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	it, err := s.trips.LatestItinerary(r.Context(), tripID, userID(r))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "no_itinerary", "itinerary required")
			return
		}
		mapError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown")
	_, _ = w.Write([]byte(it.RenderMD))
}

type createAlertRequest struct {
	TripID           string  `json:"trip_id"`
	Type             string  `json:"type"`
	Threshold        float64 `json:"threshold"`
	FrequencyMinutes int     `json:"frequency_minutes"`
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if _, err := s.trips.Get(r.Context(), req.TripID, userID(r)); err != nil {
		mapError(w, err)
		return
	}

	alert, err := s.alerts.Create(r.Context(), req.TripID, sanitizeText(req.Type), req.Threshold, req.FrequencyMinutes)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"alert": map[string]any{
		"id":                alert.ID,
		"trip_id":           alert.TripID,
		"type":              alert.Type,
		"threshold":         alert.Threshold,
		"frequency_minutes": alert.FrequencyMinutes,
		"is_active":         alert.IsActive,
	}})
}
