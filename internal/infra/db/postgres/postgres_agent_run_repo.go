package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"tripsmith/internal/domain/model"
	"tripsmith/internal/domain/ports/repository"
)

var _ repository.AgentRunRepository = (*agentRunRepo)(nil)

type agentRunRepo struct {
	pool *pgxpool.Pool
}

func NewAgentRunRepo(pool *pgxpool.Pool) *agentRunRepo {
	return &agentRunRepo{pool: pool}
}

func (r *agentRunRepo) Append(ctx context.Context, tx repository.Tx, run *model.AgentRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	input, err := json.Marshal(run.Input)
	if err != nil {
		return fmt.Errorf("marshal run input: %w", err)
	}
	output, err := json.Marshal(run.Output)
	if err != nil {
		return fmt.Errorf("marshal run output: %w", err)
	}
	calls, err := json.Marshal(run.ToolCalls)
	if err != nil {
		return fmt.Errorf("marshal tool calls: %w", err)
	}
	info, err := json.Marshal(run.ModelInfo)
	if err != nil {
		return fmt.Errorf("marshal model info: %w", err)
	}

	const q = `
INSERT INTO agent_runs (id, trip_id, phase, input, output, tool_calls, model_info, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	_, err = execSQL(ctx, r.pool, tx, q,
		run.ID, run.TripID, run.Phase, input, output, calls, info, run.CreatedAt)
	return err
}
