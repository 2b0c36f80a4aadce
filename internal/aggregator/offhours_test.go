package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-dai/box-access-audit/internal/logging"
	"github.com/naka-dai/box-access-audit/internal/models"
)

var businessHours = models.BusinessHours{StartHour: 8, EndHour: 20}

func TestOffHourEvents(t *testing.T) {
	agg := New(logging.Discard())

	t.Run("start inclusive end exclusive boundary", func(t *testing.T) {
		cases := []struct {
			at      string
			offhour bool
		}{
			{"2025-01-15T07:59:00", true},
			{"2025-01-15T08:00:00", false},
			{"2025-01-15T19:59:59", false},
			{"2025-01-15T20:00:00", true},
			{"2025-01-15T23:30:00", true},
			{"2025-01-15T00:00:00", true},
		}

		for _, tc := range cases {
			events := []models.Event{download("alice", "f1", tc.at)}
			result := agg.OffHourEvents(events, businessHours)
			if tc.offhour {
				assert.Len(t, result, 1, "expected %s to be off-hour", tc.at)
			} else {
				assert.Empty(t, result, "expected %s to be inside business hours", tc.at)
			}
		}
	})

	t.Run("minute granularity on the window edges", func(t *testing.T) {
		hours := models.BusinessHours{StartHour: 8, StartMinute: 30, EndHour: 17, EndMinute: 45}

		events := []models.Event{
			download("alice", "f1", "2025-01-15T08:29:00"),
			download("alice", "f2", "2025-01-15T08:30:00"),
			download("alice", "f3", "2025-01-15T17:44:00"),
			download("alice", "f4", "2025-01-15T17:45:00"),
		}

		result := agg.OffHourEvents(events, hours)
		require.Len(t, result, 2)
		assert.Equal(t, "f1", result[0].FileID)
		assert.Equal(t, "f4", result[1].FileID)
	})

	t.Run("skips missing and unparsable timestamps", func(t *testing.T) {
		events := []models.Event{
			download("alice", "f1", ""),
			download("alice", "f2", "yesterday-ish"),
			download("alice", "f3", "2025-01-15T22:00:00"),
		}

		result := agg.OffHourEvents(events, businessHours)
		require.Len(t, result, 1)
		assert.Equal(t, "f3", result[0].FileID)
	})
}

func TestCountOffHourByUser(t *testing.T) {
	agg := New(logging.Discard())

	t.Run("tallies per login", func(t *testing.T) {
		events := []models.Event{
			download("alice", "f1", "2025-01-15T22:00:00"),
			download("alice", "f2", "2025-01-15T23:00:00"),
			download("bob", "f1", "2025-01-15T06:00:00"),
			download("bob", "f1", "2025-01-15T12:00:00"),
		}

		counts := agg.CountOffHourByUser(events, businessHours)
		assert.Equal(t, 2, counts["alice"])
		assert.Equal(t, 1, counts["bob"])
	})

	t.Run("previews count toward the tally", func(t *testing.T) {
		events := []models.Event{
			event("alice", "Alice", "f1", "a.pdf", "2025-01-15T22:00:00", models.EventTypePreview),
			event("alice", "Alice", "f1", "a.pdf", "2025-01-15T22:05:00", models.EventTypeDownload),
		}

		counts := agg.CountOffHourByUser(events, businessHours)
		assert.Equal(t, 2, counts["alice"])
	})

	t.Run("skips off-hour events without a login", func(t *testing.T) {
		events := []models.Event{download("", "f1", "2025-01-15T22:00:00")}
		assert.Empty(t, agg.CountOffHourByUser(events, businessHours))
	})
}
