package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tripsmith/internal/config"
	"tripsmith/internal/domain/ports/adapter"
	"tripsmith/internal/infra/adapters/llm"
	pg "tripsmith/internal/infra/db/postgres"
	"tripsmith/internal/infra/logging"
	"tripsmith/internal/infra/metrics"
	"tripsmith/internal/infra/providers"
	red "tripsmith/internal/infra/redis"
	"tripsmith/internal/infra/sched"
	"tripsmith/internal/infra/web"
	"tripsmith/internal/infra/worker"
	"tripsmith/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, relaxed checks)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, *devMode)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	tm := pg.NewTxManager(pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	cache := red.NewCache(redisClient)
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Providers ----
	providerSet, err := providers.NewSet(cfg.Providers, logger)
	if err != nil {
		log.Fatalf("providers: %v", err)
	}

	// ---- Explainer (OpenAI -> template) ----
	var explainer adapter.Explainer
	if cfg.Explainer.Provider == "openai" && cfg.Explainer.OpenAIKey != "" {
		explainer, err = llm.NewOpenAIExplainer(cfg.Explainer.OpenAIKey, cfg.Explainer.Model)
		if err != nil {
			log.Fatalf("openai explainer: %v", err)
		}
		logger.Info().Str("model", cfg.Explainer.Model).Msg("explainer: openai")
	} else {
		explainer = usecase.NewTemplateExplainer()
		logger.Info().Msg("explainer: template")
	}

	// ---- Repositories ----
	tripRepo := pg.NewTripRepo(pool)
	jobRepo := pg.NewJobRepo(pool, tm)
	planRepo := pg.NewPlanRepo(pool)
	itineraryRepo := pg.NewItineraryRepo(pool)
	agentRunRepo := pg.NewAgentRunRepo(pool)
	alertRepo := pg.NewAlertRepo(pool)
	notificationRepo := pg.NewNotificationRepo(pool)

	// ---- Pipeline ----
	aggregator := usecase.NewAggregator(providerSet, cache, red.Key, logger)
	planner := usecase.NewPlanner(aggregator, explainer, logger)
	builder := usecase.NewItineraryBuilder(aggregator, logger)
	orchestrator := usecase.NewOrchestrator(
		jobRepo, tripRepo, planRepo, itineraryRepo, agentRunRepo,
		planner, builder, explainer.Info(), logger)

	// ---- Services ----
	tripService := usecase.NewTripService(tripRepo, planRepo, itineraryRepo, logger)
	jobService := usecase.NewJobService(jobRepo, tripRepo, usecase.NopQueue{}, logger)
	alertService := usecase.NewAlertService(alertRepo, notificationRepo, logger)

	// ---- Workers ----
	pool2 := worker.NewPool(cfg.Worker.Count, logger)
	pool2.Start(ctx)
	defer pool2.Stop()
	processor := worker.NewJobProcessor(jobRepo, orchestrator, cfg.Worker.PollInterval, logger)
	go processor.Start(ctx, pool2)

	alertWorker := sched.NewAlertWorker(cfg.Alerts.RefreshInterval, alertService, logger)
	go func() { _ = alertWorker.Run(ctx) }()

	// ---- HTTP server ----
	webServer := web.NewServer(tripService, jobService, alertService, rateLimiter,
		cfg.RateLimit.PerMinute, cfg.Server.WebOrigin, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: webServer.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
	cancel()
}
