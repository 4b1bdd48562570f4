package repository

import (
	"context"

	"tripsmith/internal/domain/model"
)

type AlertRepository interface {
	Save(ctx context.Context, tx Tx, alert *model.Alert) error
	ListActive(ctx context.Context) ([]*model.Alert, error)
	MarkChecked(ctx context.Context, tx Tx, alertID string) error
}

type NotificationRepository interface {
	Append(ctx context.Context, tx Tx, n *model.Notification) error
}
