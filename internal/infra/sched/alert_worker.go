package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"tripsmith/internal/usecase"
)

// AlertWorker periodically refreshes due price alerts via the use case.
type AlertWorker struct {
	interval time.Duration
	alerts   *usecase.AlertService
	log      *zerolog.Logger
}

func NewAlertWorker(interval time.Duration, alerts *usecase.AlertService, logger *zerolog.Logger) *AlertWorker {
	l := logger.With().Str("component", "AlertWorker").Logger()
	return &AlertWorker{interval: interval, alerts: alerts, log: &l}
}

func (w *AlertWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("starting alert worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping alert worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.alerts.RefreshDue(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("alert refresh error")
			}
			if n > 0 {
				w.log.Info().Int("count", n).Msg("price alerts checked")
			}
		}
	}
}
