package usecase

import (
	"strings"

	"tripsmith/internal/domain/model"
)

// GenerateConstraints derives trip-level limits from the preference tags.
// Pure; confirmation is a separate explicit step on the trip record.
func GenerateConstraints(trip *model.Trip) *model.Constraints {
	tags := map[string]bool{}
	switch v := trip.Preferences["tags"].(type) {
	case string:
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(strings.ToLower(t)); t != "" {
				tags[t] = true
			}
		}
	case []any:
		for _, t := range v {
			if s, ok := t.(string); ok {
				tags[strings.ToLower(s)] = true
			}
		}
	}

	pace := "balanced"
	if tags["relaxed"] {
		pace = "relaxed"
	}
	if tags["packed"] {
		pace = "packed"
	}

	walking := 6.0
	switch pace {
	case "relaxed":
		walking = 3.0
	case "packed":
		walking = 10.0
	}

	return &model.Constraints{
		Pace:                     pace,
		WalkingToleranceKmPerDay: walking,
		MaxDailyActivityHours:    8,
		MaxDailyCommuteHours:     2,
		MaxTransferCount:         2,
		NightFlightAllowed:       false,
	}
}
