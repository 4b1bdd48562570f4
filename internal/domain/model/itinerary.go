package model

import "time"

type DayPeriod string

const (
	PeriodMorning   DayPeriod = "morning"
	PeriodAfternoon DayPeriod = "afternoon"
	PeriodEvening   DayPeriod = "evening"
)

// DayPeriods is the fixed slot order within a day.
var DayPeriods = []DayPeriod{PeriodMorning, PeriodAfternoon, PeriodEvening}

type Commute struct {
	Mode    string `json:"mode"` // walk | drive | transit | estimate
	Minutes int    `json:"minutes"`
}

type ItineraryItem struct {
	Period         DayPeriod `json:"period"`
	PoiName        string    `json:"poi_name"`
	StayMinutes    int       `json:"stay_minutes"`
	Commute        Commute   `json:"commute"`
	WeatherSummary string    `json:"weather_summary"`
}

type ItineraryDay struct {
	Date  string          `json:"date"` // ISO date
	Items []ItineraryItem `json:"items"`
}

// ItineraryJson is the generated day-by-day schedule for one chosen plan
// variant. Every day carries exactly three items.
type ItineraryJson struct {
	GeneratedAt time.Time      `json:"generated_at"`
	PlanIndex   int            `json:"plan_index"`
	Days        []ItineraryDay `json:"days"`
}

// Itinerary is the persisted itinerary row.
type Itinerary struct {
	ID        string
	TripID    string
	PlanIndex int
	CreatedAt time.Time
	Days      ItineraryJson
	RenderMD  string
}
