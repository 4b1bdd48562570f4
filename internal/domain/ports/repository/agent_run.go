package repository

import (
	"context"

	"tripsmith/internal/domain/model"
)

// AgentRunRepository is an append-only audit sink; one record per
// generation run.
type AgentRunRepository interface {
	Append(ctx context.Context, tx Tx, run *model.AgentRun) error
}
