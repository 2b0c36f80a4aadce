package detector

import (
	"sort"
	"time"

	"github.com/naka-dai/box-access-audit/internal/logging"
	"github.com/naka-dai/box-access-audit/internal/models"
)

// SpikeFinding is a single user's spike rule hit. SpikeStartAt is the
// timestamp of the first window that reached the maximum count.
type SpikeFinding struct {
	UserLogin     string
	UserName      string
	MaxInWindow   int
	WindowMinutes int
	Threshold     int
	SpikeStartAt  string
}

// DetectSpikes evaluates the burst rule: for each user, the maximum number
// of accesses falling inside any window of SpikeWindowMinutes anchored at
// an event. Users with fewer retained events than the threshold are skipped
// before any parsing. Events whose timestamps fail to parse are dropped
// from the window scan only, after the pre-check.
func (d *Detector) DetectSpikes(stats map[string]*models.UserAggregate) map[string]SpikeFinding {
	window := time.Duration(d.thresholds.SpikeWindowMinutes) * time.Minute
	findings := make(map[string]SpikeFinding)

	for login, agg := range stats {
		if len(agg.Events) < d.thresholds.SpikeThreshold {
			continue
		}

		times := d.parseSortedTimes(agg.Events)
		if len(times) < d.thresholds.SpikeThreshold {
			continue
		}

		maxCount, start := maxEventsInWindow(times, window)
		if maxCount >= d.thresholds.SpikeThreshold {
			findings[login] = SpikeFinding{
				UserLogin:     login,
				UserName:      agg.UserName,
				MaxInWindow:   maxCount,
				WindowMinutes: d.thresholds.SpikeWindowMinutes,
				Threshold:     d.thresholds.SpikeThreshold,
				SpikeStartAt:  start.Format("2006-01-02T15:04:05"),
			}
		}
	}

	d.logger.Info("spike anomaly detection completed", "anomalous_users", len(findings))
	return findings
}

// parseSortedTimes orders events by their raw timestamp string and parses
// each one, logging and dropping failures. String order matches
// chronological order while all timestamps share one format.
func (d *Detector) parseSortedTimes(events []models.Event) []time.Time {
	sorted := make([]models.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DownloadedAt < sorted[j].DownloadedAt
	})

	times := make([]time.Time, 0, len(sorted))
	for _, event := range sorted {
		if event.DownloadedAt == "" {
			continue
		}
		t, err := models.ParseEventTime(event.DownloadedAt)
		if err != nil {
			d.logger.Warn("failed to parse event timestamp",
				logging.EventID(event.EventID),
				logging.Timestamp(event.DownloadedAt),
				logging.Error(err))
			continue
		}
		times = append(times, t)
	}
	return times
}

// maxEventsInWindow scans sorted event times with two pointers and returns
// the maximum number of events inside any [t, t+window] interval anchored
// at an event, along with the anchor of the first window reaching that
// maximum. The window bound is inclusive. Updates use strictly-greater
// comparison so a later window with an equal count never overwrites the
// recorded start.
func maxEventsInWindow(times []time.Time, window time.Duration) (int, time.Time) {
	var (
		maxCount int
		start    time.Time
	)

	end := 0
	for i := range times {
		if end < i {
			end = i
		}
		bound := times[i].Add(window)
		for end < len(times) && !times[end].After(bound) {
			end++
		}
		if count := end - i; count > maxCount {
			maxCount = count
			start = times[i]
		}
	}

	return maxCount, start
}
