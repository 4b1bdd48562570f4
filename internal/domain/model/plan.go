package model

import "time"

type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type FlightSummary struct {
	DepartAt        string `json:"depart_at"`
	ArriveAt        string `json:"arrive_at"`
	Stops           int    `json:"stops"`
	DurationMinutes int    `json:"duration_minutes"`
	Price           Money  `json:"price"`
}

type StaySummary struct {
	Name         string `json:"name"`
	Area         string `json:"area"`
	NightlyPrice Money  `json:"nightly_price"`
	TotalPrice   Money  `json:"total_price"`
}

// PlanScores are the 0-100 normalized option scores shown to the user.
type PlanScores struct {
	CostScore    float64 `json:"cost_score"`
	TimeScore    float64 `json:"time_score"`
	ComfortScore float64 `json:"comfort_score"`
}

type PlanMetrics struct {
	TotalPrice                  Money `json:"total_price"`
	TotalFlightMinutes          int   `json:"total_flight_minutes"`
	TransferCount               int   `json:"transfer_count"`
	DailyCommuteMinutesEstimate int   `json:"daily_commute_minutes_estimate"`
}

// Scorecard is the seven-field reporting breakdown behind the explanation
// text. The three headline scores plus commute/daily-load and raw totals.
type Scorecard struct {
	TotalCost            float64 `json:"total_cost"`
	Currency             string  `json:"currency"`
	TotalTravelTimeHours float64 `json:"total_travel_time_hours"`
	NumTransfers         int     `json:"num_transfers"`
	CostScore            float64 `json:"cost_score"`
	TimeScore            float64 `json:"time_score"`
	ComfortScore         float64 `json:"comfort_score"`
	CommuteScore         float64 `json:"commute_score"`
	DailyLoadScore       float64 `json:"daily_load_score"`
}

type PlanLabel string

const (
	PlanLabelCheap    PlanLabel = "cheap"
	PlanLabelFast     PlanLabel = "fast"
	PlanLabelBalanced PlanLabel = "balanced"
)

// PlanLabels is the fixed presentation order of the three variants.
var PlanLabels = []PlanLabel{PlanLabelCheap, PlanLabelFast, PlanLabelBalanced}

// PlanOption binds one flight and one stay candidate into a labeled
// variant with derived metrics and explanation.
type PlanOption struct {
	Label       PlanLabel     `json:"label"`
	Title       string        `json:"title"`
	Flight      FlightSummary `json:"flight"`
	Stay        StaySummary   `json:"stay"`
	Metrics     PlanMetrics   `json:"metrics"`
	Scores      PlanScores    `json:"scores"`
	Scorecard   Scorecard     `json:"scorecard"`
	Explanation string        `json:"explanation"`
	Warnings    []string      `json:"warnings"`
}

// PlansJson is the full generated plan artifact: exactly three options in
// cheap/fast/balanced order. Produced once per plan job, immutable after.
type PlansJson struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Options     []PlanOption `json:"options"`
}

// Plan is the persisted plan row. Reads take the newest row per trip, so
// concurrent generations resolve last-write-wins by creation time.
type Plan struct {
	ID        string
	TripID    string
	CreatedAt time.Time
	Plans     PlansJson
	ExplainMD string
}
