// Package aggregator turns a flat list of access events into per-file,
// per-user-file and per-user statistics. It is a pure in-memory
// transformation; nothing is persisted and the input is never mutated.
package aggregator

import (
	"sort"

	"github.com/naka-dai/box-access-audit/internal/logging"
	"github.com/naka-dai/box-access-audit/internal/models"
)

// Aggregator groups access events by file, by (user, file) and by user.
type Aggregator struct {
	logger *logging.Logger
}

// New creates a new Aggregator with the given log sink.
func New(logger *logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Aggregator{logger: logger}
}

// ByFile aggregates events by file, sorted by access count descending.
// Events without a file ID are skipped. Ties keep first-seen order.
func (a *Aggregator) ByFile(events []models.Event) []models.FileAggregate {
	stats := make(map[string]*models.FileAggregate)
	order := make([]string, 0)

	for _, event := range events {
		if event.FileID == "" {
			continue
		}
		agg, ok := stats[event.FileID]
		if !ok {
			agg = &models.FileAggregate{FileID: event.FileID, FileName: event.FileName}
			stats[event.FileID] = agg
			order = append(order, event.FileID)
		}
		agg.AccessCount++
	}

	result := make([]models.FileAggregate, 0, len(order))
	for _, id := range order {
		result = append(result, *stats[id])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AccessCount > result[j].AccessCount
	})

	a.logger.Info("aggregated events by file",
		"files", len(result), "events", len(events))
	return result
}

type userFileKey struct {
	login  string
	fileID string
}

// ByUserAndFile aggregates events by (user, file), sorted by access count
// descending with first-seen order on ties. Events missing either key are
// skipped. LastAccessAt advances only when a later event's timestamp string
// compares greater; this is chronological only while all timestamps share
// one format and zone.
func (a *Aggregator) ByUserAndFile(events []models.Event) []models.UserFileAggregate {
	stats := make(map[userFileKey]*models.UserFileAggregate)
	order := make([]userFileKey, 0)

	for _, event := range events {
		if event.UserLogin == "" || event.FileID == "" {
			continue
		}
		key := userFileKey{login: event.UserLogin, fileID: event.FileID}
		agg, ok := stats[key]
		if !ok {
			agg = &models.UserFileAggregate{
				UserLogin: event.UserLogin,
				UserName:  event.UserName,
				FileID:    event.FileID,
				FileName:  event.FileName,
			}
			stats[key] = agg
			order = append(order, key)
		}
		agg.AccessCount++
		if event.DownloadedAt > agg.LastAccessAt {
			agg.LastAccessAt = event.DownloadedAt
		}
	}

	result := make([]models.UserFileAggregate, 0, len(order))
	for _, key := range order {
		result = append(result, *stats[key])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AccessCount > result[j].AccessCount
	})

	a.logger.Info("aggregated events by user and file",
		"combinations", len(result), "events", len(events))
	return result
}

// ByUser aggregates events by user login. Each contributing event is
// retained on the aggregate for downstream spike analysis. Events without a
// login are skipped; events without a file ID still count toward totals but
// not toward the unique-file count.
func (a *Aggregator) ByUser(events []models.Event) map[string]*models.UserAggregate {
	stats := make(map[string]*models.UserAggregate)
	uniqueFiles := make(map[string]map[string]struct{})

	for _, event := range events {
		if event.UserLogin == "" {
			continue
		}
		agg, ok := stats[event.UserLogin]
		if !ok {
			agg = &models.UserAggregate{
				UserLogin: event.UserLogin,
				UserName:  event.UserName,
			}
			stats[event.UserLogin] = agg
			uniqueFiles[event.UserLogin] = make(map[string]struct{})
		}

		agg.TotalCount++
		if event.Type() == models.EventTypePreview {
			agg.PreviewCount++
		} else {
			agg.DownloadCount++
		}
		if event.FileID != "" {
			uniqueFiles[event.UserLogin][event.FileID] = struct{}{}
		}
		agg.Events = append(agg.Events, event)
	}

	for login, files := range uniqueFiles {
		stats[login].UniqueFileCount = len(files)
	}

	a.logger.Info("aggregated events by user",
		"users", len(stats), "events", len(events))
	return stats
}

// UserEvents returns all events for the given user login, in input order.
func (a *Aggregator) UserEvents(events []models.Event, login string) []models.Event {
	result := make([]models.Event, 0)
	for _, event := range events {
		if event.UserLogin == login {
			result = append(result, event)
		}
	}
	return result
}
