package usecase

import (
	"fmt"

	"tripsmith/internal/domain/model"
)

const (
	maxDailyStayMinutes    = 8 * 60
	maxDailyCommuteMinutes = 2 * 60
)

// VerifyPlans flags every option whose total price strictly exceeds the
// trip budget. Pure; the caller decides what to do with the issues.
func VerifyPlans(tripBudget float64, plans model.PlansJson) []string {
	var issues []string
	for _, opt := range plans.Options {
		if opt.Metrics.TotalPrice.Amount > tripBudget {
			issues = append(issues, fmt.Sprintf("%s: over budget", opt.Label))
		}
	}
	return issues
}

// VerifyItinerary flags days whose summed stay minutes exceed 8 hours or
// summed commute minutes exceed 2 hours.
func VerifyItinerary(it model.ItineraryJson) []string {
	var issues []string
	for _, day := range it.Days {
		totalStay, totalCommute := 0, 0
		for _, item := range day.Items {
			totalStay += item.StayMinutes
			totalCommute += item.Commute.Minutes
		}
		if totalStay > maxDailyStayMinutes {
			issues = append(issues, fmt.Sprintf("%s: too many activities", day.Date))
		}
		if totalCommute > maxDailyCommuteMinutes {
			issues = append(issues, fmt.Sprintf("%s: commute too long", day.Date))
		}
	}
	return issues
}

// CorrectPlans applies the single self-correction pass: offending options
// get a budget-risk warning appended. No regeneration.
func CorrectPlans(tripBudget float64, plans *model.PlansJson) {
	for i := range plans.Options {
		if plans.Options[i].Metrics.TotalPrice.Amount > tripBudget {
			plans.Options[i].Warnings = append(plans.Options[i].Warnings,
				"self-check: budget constraint cannot be met, closest option shown")
		}
	}
}

// CorrectItinerary appends a tight-schedule note to every item and re-runs
// the check once. The bounded-effort policy accepts a second round of
// violations; the count is returned so callers can surface it in the job
// result instead of discarding it.
func CorrectItinerary(it *model.ItineraryJson) int {
	for d := range it.Days {
		for i := range it.Days[d].Items {
			it.Days[d].Items[i].WeatherSummary += " | note: schedule is tight, consider trimming"
		}
	}
	return len(VerifyItinerary(*it))
}
