package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"tripsmith/internal/domain"
	"tripsmith/internal/domain/model"
	"tripsmith/internal/domain/ports/repository"
)

var _ repository.AlertRepository = (*alertRepo)(nil)

type alertRepo struct {
	pool *pgxpool.Pool
}

func NewAlertRepo(pool *pgxpool.Pool) *alertRepo {
	return &alertRepo{pool: pool}
}

func (r *alertRepo) Save(ctx context.Context, tx repository.Tx, alert *model.Alert) error {
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}

	const q = `
INSERT INTO alerts (id, trip_id, type, threshold, frequency_minutes, last_checked_at, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
  threshold = EXCLUDED.threshold,
  frequency_minutes = EXCLUDED.frequency_minutes,
  last_checked_at = EXCLUDED.last_checked_at,
  is_active = EXCLUDED.is_active;`

	_, err := execSQL(ctx, r.pool, tx, q,
		alert.ID, alert.TripID, alert.Type, alert.Threshold, alert.FrequencyMinutes,
		alert.LastCheckedAt, alert.IsActive)
	return err
}

func (r *alertRepo) ListActive(ctx context.Context) ([]*model.Alert, error) {
	const q = `
SELECT id, trip_id, type, threshold, frequency_minutes, last_checked_at, is_active
FROM alerts
WHERE is_active = TRUE
ORDER BY id;`

	rows, err := queryRows(ctx, r.pool, nil, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Alert
	for rows.Next() {
		var a model.Alert
		if err := rows.Scan(&a.ID, &a.TripID, &a.Type, &a.Threshold,
			&a.FrequencyMinutes, &a.LastCheckedAt, &a.IsActive); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *alertRepo) MarkChecked(ctx context.Context, tx repository.Tx, alertID string) error {
	const q = `UPDATE alerts SET last_checked_at = NOW() WHERE id = $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, alertID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ repository.NotificationRepository = (*notificationRepo)(nil)

type notificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *notificationRepo {
	return &notificationRepo{pool: pool}
}

func (r *notificationRepo) Append(ctx context.Context, tx repository.Tx, n *model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}

	const q = `
INSERT INTO notifications (id, alert_id, channel, payload, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6);`

	_, err = execSQL(ctx, r.pool, tx, q, n.ID, n.AlertID, n.Channel, payload, n.Status, n.CreatedAt)
	return err
}
