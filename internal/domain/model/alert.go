package model

import "time"

// Alert is a recurring price watch on a trip.
type Alert struct {
	ID               string
	TripID           string
	Type             string // flight | stay
	Threshold        float64
	FrequencyMinutes int
	LastCheckedAt    *time.Time
	IsActive         bool
}

// Due reports whether the alert should be re-checked at now.
func (a *Alert) Due(now time.Time) bool {
	if a.LastCheckedAt == nil {
		return true
	}
	next := a.LastCheckedAt.Add(time.Duration(a.FrequencyMinutes) * time.Minute)
	return !now.Before(next)
}

// Notification is one delivered (or recorded) alert trigger.
type Notification struct {
	ID        string
	AlertID   string
	CreatedAt time.Time
	Channel   string // email placeholder for now
	Payload   map[string]any
	Status    string
}
