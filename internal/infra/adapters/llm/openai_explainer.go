package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"tripsmith/internal/domain/model"
	"tripsmith/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.Explainer = (*OpenAIExplainer)(nil)

const systemPrompt = "You write short, factual trip plan explanations for travelers. " +
	"Two or three sentences, no markdown, mention the trade-off the option makes."

// OpenAIExplainer asks a chat model to explain why a plan option was
// picked. Callers fall back to the template text when it errors.
type OpenAIExplainer struct {
	client openai.Client
	model  string
}

func NewOpenAIExplainer(apiKey, model string) (*OpenAIExplainer, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIExplainer{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

func (e *OpenAIExplainer) Explain(ctx context.Context, opt model.PlanOption) (string, error) {
	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(optionPrompt(opt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (e *OpenAIExplainer) Info() map[string]string {
	return map[string]string{"provider": "openai", "model": e.model}
}

func optionPrompt(opt model.PlanOption) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Option %q (%s).\n", opt.Title, opt.Label)
	fmt.Fprintf(&b, "Total price: %.0f %s. Flight time: %d minutes, %d transfers.\n",
		opt.Metrics.TotalPrice.Amount, opt.Metrics.TotalPrice.Currency,
		opt.Metrics.TotalFlightMinutes, opt.Metrics.TransferCount)
	fmt.Fprintf(&b, "Scores out of 100: cost %.0f, time %.0f, comfort %.0f.\n",
		opt.Scores.CostScore, opt.Scores.TimeScore, opt.Scores.ComfortScore)
	if len(opt.Warnings) > 0 {
		fmt.Fprintf(&b, "Known risks: %s.\n", strings.Join(opt.Warnings, "; "))
	}
	b.WriteString("Explain this option to the traveler.")
	return b.String()
}
