package usecase

import (
	"context"

	"tripsmith/internal/domain/model"
	"tripsmith/internal/domain/ports/adapter"
)

// Compile-time assurance this satisfies the port
var _ adapter.Explainer = (*TemplateExplainer)(nil)

// TemplateExplainer is the default Explainer. It never calls out and
// never fails, so plan generation works with no API key configured.
type TemplateExplainer struct{}

func NewTemplateExplainer() *TemplateExplainer { return &TemplateExplainer{} }

func (t *TemplateExplainer) Explain(_ context.Context, opt model.PlanOption) (string, error) {
	return TemplateExplanation(opt), nil
}

func (t *TemplateExplainer) Info() map[string]string {
	return map[string]string{"provider": "template"}
}
