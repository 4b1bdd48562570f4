package usecase

import (
	"tripsmith/internal/domain"
	"tripsmith/internal/domain/model"
)

const maxCandidatesPerSide = 20

// Combo is one flight x stay combination with its derived metrics.
type Combo struct {
	Flight  model.FlightCandidate
	Stay    model.StayCandidate
	Cost    float64
	Minutes int
	Comfort float64
}

// ChosenPlans holds the three selected combinations plus the shared daily
// commute estimate they were scored with.
type ChosenPlans struct {
	Cheap          Combo
	Fast           Combo
	Balanced       Combo
	CommuteMinutes int
}

// Option returns the combination for a label, in cheap/fast/balanced order.
func (c ChosenPlans) Option(label model.PlanLabel) Combo {
	switch label {
	case model.PlanLabelFast:
		return c.Fast
	case model.PlanLabelBalanced:
		return c.Balanced
	default:
		return c.Cheap
	}
}

func scoreCost(totalCost, budget float64) float64 {
	if budget <= 0 {
		return 50.0
	}
	ratio := totalCost / budget
	if ratio <= 1 {
		return max0(100.0 - ratio*60.0)
	}
	return max0(40.0 - (ratio-1)*60.0)
}

func scoreTime(minutes int) float64 {
	return max0(100.0 - float64(minutes)/12.0)
}

func scoreComfort(stops, commuteMinutes int) float64 {
	return max0(100.0 - float64(stops)*18.0 - float64(commuteMinutes)*0.6)
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// ChoosePlans scores the full flight x stay cross product and selects the
// cheapest, fastest, and best-balanced combinations. Ties resolve to the
// first combination seen in cross-product order. Returns
// domain.ErrMissingCandidates when either side is empty; that is a fatal,
// non-retryable input for the caller.
func ChoosePlans(flights []model.FlightCandidate, stays []model.StayCandidate, budgetTotal float64, commuteMinutes int) (ChosenPlans, error) {
	if len(flights) > maxCandidatesPerSide {
		flights = flights[:maxCandidatesPerSide]
	}
	if len(stays) > maxCandidatesPerSide {
		stays = stays[:maxCandidatesPerSide]
	}
	if len(flights) == 0 || len(stays) == 0 {
		return ChosenPlans{}, domain.ErrMissingCandidates
	}

	combos := make([]Combo, 0, len(flights)*len(stays))
	for _, f := range flights {
		for _, s := range stays {
			combos = append(combos, Combo{
				Flight:  f,
				Stay:    s,
				Cost:    f.PriceAmount + s.TotalPriceAmount,
				Minutes: f.DurationMinutes,
				Comfort: scoreComfort(f.Stops, commuteMinutes),
			})
		}
	}

	cheap := combos[0]
	fast := combos[0]
	balanced := combos[0]
	bestBadness := badness(combos[0], budgetTotal)
	for _, c := range combos[1:] {
		if c.Cost < cheap.Cost {
			cheap = c
		}
		if c.Minutes < fast.Minutes {
			fast = c
		}
		if b := badness(c, budgetTotal); b < bestBadness {
			bestBadness = b
			balanced = c
		}
	}

	return ChosenPlans{Cheap: cheap, Fast: fast, Balanced: balanced, CommuteMinutes: commuteMinutes}, nil
}

// badness is the weighted inverse-score blend minimized by the balanced
// variant: 0.45 cost, 0.35 time, 0.20 comfort.
func badness(c Combo, budget float64) float64 {
	return 0.45*(1-scoreCost(c.Cost, budget)/100.0) +
		0.35*(1-scoreTime(c.Minutes)/100.0) +
		0.20*(1-c.Comfort/100.0)
}

// ComputeScores returns the three headline option scores.
func ComputeScores(totalCost, budgetTotal float64, flightMinutes, stops, commuteMinutes int) model.PlanScores {
	return model.PlanScores{
		CostScore:    scoreCost(totalCost, budgetTotal),
		TimeScore:    scoreTime(flightMinutes),
		ComfortScore: scoreComfort(stops, commuteMinutes),
	}
}

// ComputeScorecard derives the full reporting breakdown for one option.
func ComputeScorecard(totalCost float64, currency string, budgetTotal float64, flightMinutes, stops, commuteMinutes int) model.Scorecard {
	return model.Scorecard{
		TotalCost:            totalCost,
		Currency:             currency,
		TotalTravelTimeHours: float64(flightMinutes) / 60.0,
		NumTransfers:         stops,
		CostScore:            scoreCost(totalCost, budgetTotal),
		TimeScore:            scoreTime(flightMinutes),
		ComfortScore:         scoreComfort(stops, commuteMinutes),
		CommuteScore:         max0(100.0 - float64(commuteMinutes)*0.7),
		DailyLoadScore:       max0(100.0 - float64(commuteMinutes)*0.8 - float64(stops)*10.0),
	}
}

// OptionWarnings accrues user-facing risk notes for one combination.
func OptionWarnings(totalCost, budgetTotal float64, stops int) []string {
	var warnings []string
	if totalCost > budgetTotal {
		warnings = append(warnings, "over budget; this option exceeds the trip budget")
	}
	if stops >= 2 {
		warnings = append(warnings, "many transfers; check visa and baggage connections")
	}
	return warnings
}
