package model

import "time"

// Trip is the persisted trip record, owned by an opaque user identifier.
type Trip struct {
	ID        string
	UserID    string
	CreatedAt time.Time

	Origin       string
	Destination  string
	StartDate    time.Time // date-only, UTC midnight
	EndDate      time.Time
	FlexibleDays int

	BudgetTotal float64
	Currency    string
	Travelers   int
	Preferences map[string]any

	Constraints            *Constraints
	ConstraintsConfirmedAt *time.Time
}

// Constraints are the derived trip-level limits generated at intake and
// confirmed by the user before plan generation may run.
type Constraints struct {
	Pace                     string  `json:"pace"` // relaxed | balanced | packed
	WalkingToleranceKmPerDay float64 `json:"walking_tolerance_km_per_day"`
	MaxDailyActivityHours    int     `json:"max_daily_activity_hours"`
	MaxDailyCommuteHours     int     `json:"max_daily_commute_hours"`
	MaxTransferCount         int     `json:"max_transfer_count"`
	NightFlightAllowed       bool    `json:"night_flight_allowed"`
}

// ConstraintsConfirmed reports whether plan generation preconditions hold.
func (t *Trip) ConstraintsConfirmed() bool {
	return t.ConstraintsConfirmedAt != nil && !t.ConstraintsConfirmedAt.IsZero()
}

// Nights returns the number of nights between start and end, at least 1.
func (t *Trip) Nights() int {
	n := int(t.EndDate.Sub(t.StartDate).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}

// Days returns every calendar date of the trip, start and end inclusive.
func (t *Trip) Days() []time.Time {
	n := int(t.EndDate.Sub(t.StartDate).Hours()/24) + 1
	if n < 1 {
		n = 1
	}
	days := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, t.StartDate.AddDate(0, 0, i))
	}
	return days
}

// TripSnapshot is the immutable view of a trip handed through the
// generation pipeline. It is constructed once per job and passed by value,
// so no stage can observe a concurrent trip edit mid-run.
type TripSnapshot struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Origin      string         `json:"origin"`
	Destination string         `json:"destination"`
	StartDate   string         `json:"start_date"` // ISO date
	EndDate     string         `json:"end_date"`
	BudgetTotal float64        `json:"budget_total"`
	Currency    string         `json:"currency"`
	Travelers   int            `json:"travelers"`
	Preferences map[string]any `json:"preferences,omitempty"`
}

// Snapshot freezes the trip into the value passed through the pipeline.
func (t *Trip) Snapshot() TripSnapshot {
	prefs := make(map[string]any, len(t.Preferences))
	for k, v := range t.Preferences {
		prefs[k] = v
	}
	return TripSnapshot{
		ID:          t.ID,
		UserID:      t.UserID,
		Origin:      t.Origin,
		Destination: t.Destination,
		StartDate:   t.StartDate.Format("2006-01-02"),
		EndDate:     t.EndDate.Format("2006-01-02"),
		BudgetTotal: t.BudgetTotal,
		Currency:    t.Currency,
		Travelers:   t.Travelers,
		Preferences: prefs,
	}
}

// PreferredCenter returns the caller-supplied location preference if one is
// present, otherwise ok=false.
func (s TripSnapshot) PreferredCenter() (GeoPoint, bool) {
	loc, ok := s.Preferences["location"].(map[string]any)
	if !ok {
		return GeoPoint{}, false
	}
	lat, latOK := loc["lat"].(float64)
	lon, lonOK := loc["lon"].(float64)
	if !latOK || !lonOK {
		return GeoPoint{}, false
	}
	return GeoPoint{Lat: lat, Lon: lon}, true
}

// Dates parses the snapshot date range back into calendar days.
func (s TripSnapshot) Dates() []string {
	start, err := time.Parse("2006-01-02", s.StartDate)
	if err != nil {
		return nil
	}
	end, err := time.Parse("2006-01-02", s.EndDate)
	if err != nil {
		return nil
	}
	n := int(end.Sub(start).Hours()/24) + 1
	if n < 1 {
		n = 1
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, start.AddDate(0, 0, i).Format("2006-01-02"))
	}
	return out
}
