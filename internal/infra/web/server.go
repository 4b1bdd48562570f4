package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"tripsmith/internal/infra/redis"
	"tripsmith/internal/usecase"
)

// Server is the public HTTP API. Generation endpoints enqueue jobs and
// return immediately; clients poll the job resource for progress.
type Server struct {
	trips   *usecase.TripService
	jobs    *usecase.JobService
	alerts  *usecase.AlertService
	limiter *redis.RateLimiter

	rateLimitPerMinute int
	webOrigin          string
	log                *zerolog.Logger
}

func NewServer(
	trips *usecase.TripService,
	jobs *usecase.JobService,
	alerts *usecase.AlertService,
	limiter *redis.RateLimiter,
	rateLimitPerMinute int,
	webOrigin string,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "WebServer").Logger()
	return &Server{
		trips:              trips,
		jobs:               jobs,
		alerts:             alerts,
		limiter:            limiter,
		rateLimitPerMinute: rateLimitPerMinute,
		webOrigin:          webOrigin,
		log:                &l,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.cors)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/trips", s.handleCreateTrip)
		r.Get("/trips/{tripID}", s.handleGetTrip)
		r.Post("/trips/{tripID}/constraints/confirm", s.handleConfirmConstraints)
		r.Post("/trips/{tripID}/plan", s.handleCreatePlanJob)
		r.Post("/trips/{tripID}/itinerary", s.handleCreateItineraryJob)
		r.Get("/trips/{tripID}/export/ics", s.handleExportICS)
		r.Get("/trips/{tripID}/export/md", s.handleExportMD)
		r.Get("/jobs/{jobID}", s.handleGetJob)
		r.Post("/alerts", s.handleCreateAlert)
	})

	return r
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := s.webOrigin
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-Id")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
