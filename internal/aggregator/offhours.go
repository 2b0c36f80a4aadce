package aggregator

import (
	"github.com/naka-dai/box-access-audit/internal/logging"
	"github.com/naka-dai/box-access-audit/internal/models"
)

// OffHourEvents filters events whose local time-of-day falls outside the
// business-hours window. An event exactly at the window start is inside
// business hours; an event exactly at the window end is off-hour. Events
// with missing or unparsable timestamps are skipped.
func (a *Aggregator) OffHourEvents(events []models.Event, hours models.BusinessHours) []models.Event {
	startMinutes := hours.StartMinutes()
	endMinutes := hours.EndMinutes()

	offhour := make([]models.Event, 0)
	for _, event := range events {
		if event.DownloadedAt == "" {
			continue
		}

		t, err := models.ParseEventTime(event.DownloadedAt)
		if err != nil {
			a.logger.Warn("failed to parse event timestamp",
				logging.EventID(event.EventID),
				logging.Timestamp(event.DownloadedAt),
				logging.Error(err))
			continue
		}

		eventMinutes := t.Hour()*60 + t.Minute()
		if eventMinutes < startMinutes || eventMinutes >= endMinutes {
			offhour = append(offhour, event)
		}
	}

	a.logger.Info("filtered off-hour events",
		"offhour", len(offhour), "events", len(events))
	return offhour
}

// CountOffHourByUser tallies off-hour events per user login. Previews count
// toward the total as well as downloads. Events without a login are skipped.
func (a *Aggregator) CountOffHourByUser(events []models.Event, hours models.BusinessHours) map[string]int {
	counts := make(map[string]int)
	for _, event := range a.OffHourEvents(events, hours) {
		if event.UserLogin == "" {
			continue
		}
		counts[event.UserLogin]++
	}
	return counts
}
