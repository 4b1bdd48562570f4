package usecase

import (
	"context"
	"time"

	"tripsmith/internal/domain/model"
	"tripsmith/internal/domain/ports/adapter"
	"tripsmith/internal/domain/ports/provider"

	"github.com/rs/zerolog"
)

var planTitles = map[model.PlanLabel]string{
	model.PlanLabelCheap:    "Budget saver",
	model.PlanLabelFast:     "Time saver",
	model.PlanLabelBalanced: "Balanced",
}

// Planner runs the plan-generation flow: aggregator, optimizer, verifier
// with one self-correction pass.
type Planner struct {
	agg       *Aggregator
	explainer adapter.Explainer
	log       *zerolog.Logger
	now       func() time.Time
}

func NewPlanner(agg *Aggregator, explainer adapter.Explainer, logger *zerolog.Logger) *Planner {
	l := logger.With().Str("component", "Planner").Logger()
	return &Planner{agg: agg, explainer: explainer, log: &l, now: time.Now}
}

// PlanResult is the generated artifact plus its rendered explanation.
type PlanResult struct {
	Plans     model.PlansJson
	ExplainMD string
}

// PlanCandidates holds the fetched inputs the optimizer selects from.
type PlanCandidates struct {
	Flights        []model.FlightCandidate
	Stays          []model.StayCandidate
	CommuteMinutes int
}

// Fetch pulls flight and stay candidates through the cache-aside layer and
// samples a daily commute estimate. Flights and stays do not depend on each
// other, but calls stay sequential to keep provider pressure bounded.
func (p *Planner) Fetch(ctx context.Context, trace *TraceRecorder, trip model.TripSnapshot) (PlanCandidates, error) {
	flights, err := p.agg.SearchFlights(ctx, trace, provider.FlightQuery{
		Origin:      trip.Origin,
		Destination: trip.Destination,
		StartDate:   trip.StartDate,
		EndDate:     trip.EndDate,
		Travelers:   trip.Travelers,
	})
	if err != nil {
		return PlanCandidates{}, err
	}
	stays, err := p.agg.SearchStays(ctx, trace, provider.StayQuery{
		Destination: trip.Destination,
		StartDate:   trip.StartDate,
		EndDate:     trip.EndDate,
		Travelers:   trip.Travelers,
		BudgetTotal: trip.BudgetTotal,
	})
	if err != nil {
		return PlanCandidates{}, err
	}
	return PlanCandidates{
		Flights:        flights,
		Stays:          stays,
		CommuteMinutes: p.dailyCommuteEstimate(ctx, trace, stays),
	}, nil
}

// Build selects the three package variants from fetched candidates and runs
// the plan self-check.
func (p *Planner) Build(ctx context.Context, trip model.TripSnapshot, cand PlanCandidates) (PlanResult, error) {
	chosen, err := ChoosePlans(cand.Flights, cand.Stays, trip.BudgetTotal, cand.CommuteMinutes)
	if err != nil {
		return PlanResult{}, err
	}

	options := make([]model.PlanOption, 0, len(model.PlanLabels))
	for _, label := range model.PlanLabels {
		options = append(options, p.buildOption(ctx, label, chosen.Option(label), trip, chosen.CommuteMinutes))
	}

	plans := model.PlansJson{GeneratedAt: p.now().UTC(), Options: options}
	if issues := VerifyPlans(trip.BudgetTotal, plans); len(issues) > 0 {
		p.log.Info().Strs("issues", issues).Msg("plan self-check flagged issues")
		CorrectPlans(trip.BudgetTotal, &plans)
	}

	return PlanResult{Plans: plans, ExplainMD: RenderPlansMarkdown(trip, plans)}, nil
}

// dailyCommuteEstimate samples the transit time between the first two stay
// locations as a rough daily-commute proxy. Degrades to a fixed default
// when fewer than two stays exist or routing fails.
func (p *Planner) dailyCommuteEstimate(ctx context.Context, trace *TraceRecorder, stays []model.StayCandidate) int {
	const defaultCommuteMinutes = 25
	if len(stays) < 2 {
		return defaultCommuteMinutes
	}
	est, err := p.agg.EstimateRoute(ctx, trace, stays[0].Location, stays[1].Location, "transit")
	if err != nil {
		p.log.Warn().Err(err).Msg("commute estimate failed, using default")
		return defaultCommuteMinutes
	}
	return est.Minutes
}

func (p *Planner) buildOption(ctx context.Context, label model.PlanLabel, c Combo, trip model.TripSnapshot, commuteMinutes int) model.PlanOption {
	totalCost := c.Cost
	opt := model.PlanOption{
		Label: label,
		Title: planTitles[label],
		Flight: model.FlightSummary{
			DepartAt:        c.Flight.DepartAt,
			ArriveAt:        c.Flight.ArriveAt,
			Stops:           c.Flight.Stops,
			DurationMinutes: c.Flight.DurationMinutes,
			Price:           model.Money{Amount: c.Flight.PriceAmount, Currency: c.Flight.Currency},
		},
		Stay: model.StaySummary{
			Name:         c.Stay.Name,
			Area:         c.Stay.Area,
			NightlyPrice: model.Money{Amount: c.Stay.NightlyPriceAmount, Currency: c.Stay.Currency},
			TotalPrice:   model.Money{Amount: c.Stay.TotalPriceAmount, Currency: c.Stay.Currency},
		},
		Metrics: model.PlanMetrics{
			TotalPrice:                  model.Money{Amount: totalCost, Currency: c.Stay.Currency},
			TotalFlightMinutes:          c.Flight.DurationMinutes,
			TransferCount:               c.Flight.Stops,
			DailyCommuteMinutesEstimate: commuteMinutes,
		},
		Scores:    ComputeScores(totalCost, trip.BudgetTotal, c.Flight.DurationMinutes, c.Flight.Stops, commuteMinutes),
		Scorecard: ComputeScorecard(totalCost, c.Stay.Currency, trip.BudgetTotal, c.Flight.DurationMinutes, c.Flight.Stops, commuteMinutes),
		Warnings:  OptionWarnings(totalCost, trip.BudgetTotal, c.Flight.Stops),
	}

	opt.Explanation = p.explain(ctx, opt)
	return opt
}

// explain asks the configured explainer, falling back to template text so a
// broken LLM call never affects generation.
func (p *Planner) explain(ctx context.Context, opt model.PlanOption) string {
	text, err := p.explainer.Explain(ctx, opt)
	if err != nil || text == "" {
		if err != nil {
			p.log.Warn().Err(err).Str("label", string(opt.Label)).Msg("explainer failed, using template")
		}
		return TemplateExplanation(opt)
	}
	return text
}
