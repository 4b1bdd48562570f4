package adapter

import (
	"context"

	"tripsmith/internal/domain/model"
)

// Explainer turns a scored plan option into user-facing explanation text.
// Implementations may call an LLM; the template implementation is the
// default and the fallback when the call fails.
type Explainer interface {
	Explain(ctx context.Context, opt model.PlanOption) (string, error)
	// Info identifies the backing model/provider for the audit record.
	Info() map[string]string
}
