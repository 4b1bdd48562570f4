package usecase

import (
	"fmt"
	"strings"

	"tripsmith/internal/domain/model"
)

// TemplateExplanation is the default explanation text for one option.
func TemplateExplanation(opt model.PlanOption) string {
	tag := map[model.PlanLabel]string{
		model.PlanLabelCheap:    "leans toward saving money",
		model.PlanLabelFast:     "leans toward saving time",
		model.PlanLabelBalanced: "leans toward balance",
	}[opt.Label]
	core := fmt.Sprintf("%s. Scores: cost %.0f/100, time %.0f/100, comfort %.0f/100.",
		strings.ToUpper(tag[:1])+tag[1:], opt.Scores.CostScore, opt.Scores.TimeScore, opt.Scores.ComfortScore)
	if len(opt.Warnings) > 0 {
		return core + " Risks: " + strings.Join(opt.Warnings, "; ")
	}
	return core
}

// RenderPlansMarkdown renders the user-facing plan summary.
func RenderPlansMarkdown(trip model.TripSnapshot, plans model.PlansJson) string {
	var b strings.Builder
	b.WriteString("# TripSmith plans\n\n")
	fmt.Fprintf(&b, "- %s → %s\n", trip.Origin, trip.Destination)
	fmt.Fprintf(&b, "- Dates: %s ~ %s\n", trip.StartDate, trip.EndDate)
	fmt.Fprintf(&b, "- Budget: %.0f %s, travelers: %d\n", trip.BudgetTotal, trip.Currency, trip.Travelers)
	b.WriteString("\n## Three options\n\n")
	for _, opt := range plans.Options {
		fmt.Fprintf(&b, "### %s\n", opt.Title)
		fmt.Fprintf(&b, "- Total: %.0f %s\n", opt.Metrics.TotalPrice.Amount, opt.Metrics.TotalPrice.Currency)
		fmt.Fprintf(&b, "- Flight: %s → %s, %d stops, %d minutes\n",
			opt.Flight.DepartAt, opt.Flight.ArriveAt, opt.Flight.Stops, opt.Flight.DurationMinutes)
		fmt.Fprintf(&b, "- Stay: %s, %.0f %s per night\n",
			opt.Stay.Area, opt.Stay.NightlyPrice.Amount, opt.Stay.NightlyPrice.Currency)
		fmt.Fprintf(&b, "- Why: %s\n", opt.Explanation)
		if len(opt.Warnings) > 0 {
			fmt.Fprintf(&b, "- Notes: %s\n", strings.Join(opt.Warnings, "; "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderItineraryMarkdown renders the day-by-day schedule.
func RenderItineraryMarkdown(trip model.TripSnapshot, plan model.PlansJson, planIndex int, it model.ItineraryJson) string {
	var b strings.Builder
	b.WriteString("# TripSmith itinerary\n\n")
	if planIndex >= 0 && planIndex < len(plan.Options) {
		opt := plan.Options[planIndex]
		fmt.Fprintf(&b, "- Plan: %s\n", opt.Title)
		fmt.Fprintf(&b, "- Total: %.0f %s\n", opt.Metrics.TotalPrice.Amount, opt.Metrics.TotalPrice.Currency)
	}
	b.WriteString("\n")
	for _, day := range it.Days {
		fmt.Fprintf(&b, "## %s\n", day.Date)
		for _, item := range day.Items {
			fmt.Fprintf(&b, "- %s: %s (stay %d min, commute %d min, weather: %s)\n",
				item.Period, item.PoiName, item.StayMinutes, item.Commute.Minutes, item.WeatherSummary)
		}
		b.WriteString("\n")
	}
	b.WriteString("## Export\n")
	fmt.Fprintf(&b, "- ICS: /api/trips/%s/export/ics\n", trip.ID)
	fmt.Fprintf(&b, "- Markdown: /api/trips/%s/export/md\n", trip.ID)
	return b.String()
}
