// Package export renders generated artifacts into external formats.
package export

import (
	"fmt"
	"strings"
	"time"

	"tripsmith/internal/domain/model"
)

const icsTimeLayout = "20060102T150405Z"

// periodOffsetHours anchors each slot relative to 09:00 UTC on the day.
var periodOffsetHours = map[model.DayPeriod]int{
	model.PeriodMorning:   0,
	model.PeriodAfternoon: 4,
	model.PeriodEvening:   8,
}

// ToICS renders an itinerary as an iCalendar document, one VEVENT per
// scheduled item. Event UIDs are stable per trip/date/period so re-imports
// update in place.
func ToICS(tripID string, itinerary model.ItineraryJson, now time.Time) string {
	stamp := now.UTC().Format(icsTimeLayout)

	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//TripSmith//EN\r\n")
	for _, day := range itinerary.Days {
		base, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			continue
		}
		base = base.Add(9 * time.Hour)
		for _, item := range day.Items {
			start := base.Add(time.Duration(periodOffsetHours[item.Period]) * time.Hour)
			end := start.Add(time.Duration(item.StayMinutes) * time.Minute)
			b.WriteString("BEGIN:VEVENT\r\n")
			fmt.Fprintf(&b, "UID:%s-%s-%s@tripsmith\r\n", tripID, day.Date, item.Period)
			fmt.Fprintf(&b, "DTSTAMP:%s\r\n", stamp)
			fmt.Fprintf(&b, "DTSTART:%s\r\n", start.Format(icsTimeLayout))
			fmt.Fprintf(&b, "DTEND:%s\r\n", end.Format(icsTimeLayout))
			fmt.Fprintf(&b, "SUMMARY:%s\r\n", escapeICS(item.PoiName))
			fmt.Fprintf(&b, "DESCRIPTION:%s\r\n", escapeICS(item.WeatherSummary))
			b.WriteString("END:VEVENT\r\n")
		}
	}
	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

func escapeICS(v string) string {
	r := strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)
	return r.Replace(v)
}
