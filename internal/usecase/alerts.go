package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"tripsmith/internal/domain"
	"tripsmith/internal/domain/model"
	"tripsmith/internal/domain/ports/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AlertService re-checks active price alerts and records notifications for
// triggered ones. Prices come from a deterministic pseudo-quote until a
// real quote source is wired; the hash keys on trip, alert type, and hour
// so repeated checks within an hour are stable.
type AlertService struct {
	alerts        repository.AlertRepository
	notifications repository.NotificationRepository
	log           *zerolog.Logger
	now           func() time.Time
}

func NewAlertService(alerts repository.AlertRepository, notifications repository.NotificationRepository, logger *zerolog.Logger) *AlertService {
	l := logger.With().Str("component", "AlertService").Logger()
	return &AlertService{alerts: alerts, notifications: notifications, log: &l, now: time.Now}
}

// Create registers a new active price alert for a trip.
func (s *AlertService) Create(ctx context.Context, tripID, alertType string, threshold float64, frequencyMinutes int) (*model.Alert, error) {
	if alertType != "flight" && alertType != "stay" {
		return nil, fmt.Errorf("%w: alert type must be flight or stay", domain.ErrInvalidArgument)
	}
	if frequencyMinutes <= 0 {
		frequencyMinutes = 60
	}
	alert := &model.Alert{
		ID:               uuid.NewString(),
		TripID:           tripID,
		Type:             alertType,
		Threshold:        threshold,
		FrequencyMinutes: frequencyMinutes,
		IsActive:         true,
	}
	if err := s.alerts.Save(ctx, nil, alert); err != nil {
		return nil, fmt.Errorf("save alert: %w", err)
	}
	return alert, nil
}

// RefreshDue checks every active alert whose frequency window elapsed.
// Returns the number of alerts checked.
func (s *AlertService) RefreshDue(ctx context.Context) (int, error) {
	active, err := s.alerts.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("list alerts: %w", err)
	}
	now := s.now().UTC()
	checked := 0
	for _, alert := range active {
		if !alert.Due(now) {
			continue
		}
		if err := s.checkOne(ctx, alert, now); err != nil {
			s.log.Error().Err(err).Str("alert_id", alert.ID).Msg("alert check failed")
			continue
		}
		checked++
	}
	return checked, nil
}

func (s *AlertService) checkOne(ctx context.Context, alert *model.Alert, now time.Time) error {
	price := pseudoPrice(alert.TripID, alert.Type, now)
	if err := s.alerts.MarkChecked(ctx, nil, alert.ID); err != nil {
		return err
	}
	if price > alert.Threshold {
		return nil
	}

	n := &model.Notification{
		ID:        uuid.NewString(),
		AlertID:   alert.ID,
		CreatedAt: now,
		Channel:   "email",
		Payload: map[string]any{
			"trip_id":    alert.TripID,
			"alert_type": alert.Type,
			"price":      price,
			"threshold":  alert.Threshold,
			"checked_at": now.Format(time.RFC3339),
		},
		Status: "sent",
	}
	if err := s.notifications.Append(ctx, nil, n); err != nil {
		return err
	}
	s.log.Info().Str("alert_id", alert.ID).Float64("price", price).Msg("alert triggered")
	return nil
}

func pseudoPrice(tripID, alertType string, now time.Time) float64 {
	basis := tripID + "|" + alertType + "|" + now.Format("2006-01-02-15")
	sum := sha256.Sum256([]byte(basis))
	n, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:6], 16, 64)
	return float64(n%500) + 80.0
}
