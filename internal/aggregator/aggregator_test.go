package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-dai/box-access-audit/internal/logging"
	"github.com/naka-dai/box-access-audit/internal/models"
)

func event(login, name, fileID, fileName, at string, eventType models.EventType) models.Event {
	return models.Event{
		EventID:      login + "/" + fileID + "/" + at,
		EventType:    eventType,
		UserLogin:    login,
		UserName:     name,
		FileID:       fileID,
		FileName:     fileName,
		DownloadedAt: at,
	}
}

func download(login, fileID, at string) models.Event {
	return event(login, login, fileID, fileID+".xlsx", at, models.EventTypeDownload)
}

func TestByFile(t *testing.T) {
	agg := New(logging.Discard())

	t.Run("counts and sorts descending", func(t *testing.T) {
		events := []models.Event{
			download("alice", "f1", "2025-01-15T10:00:00"),
			download("bob", "f2", "2025-01-15T10:01:00"),
			download("alice", "f2", "2025-01-15T10:02:00"),
			download("carol", "f2", "2025-01-15T10:03:00"),
		}

		result := agg.ByFile(events)
		require.Len(t, result, 2)
		assert.Equal(t, "f2", result[0].FileID)
		assert.Equal(t, 3, result[0].AccessCount)
		assert.Equal(t, "f1", result[1].FileID)
		assert.Equal(t, 1, result[1].AccessCount)
	})

	t.Run("ties keep first-seen order", func(t *testing.T) {
		events := []models.Event{
			download("alice", "f3", "2025-01-15T10:00:00"),
			download("alice", "f1", "2025-01-15T10:01:00"),
			download("alice", "f2", "2025-01-15T10:02:00"),
		}

		result := agg.ByFile(events)
		require.Len(t, result, 3)
		assert.Equal(t, "f3", result[0].FileID)
		assert.Equal(t, "f1", result[1].FileID)
		assert.Equal(t, "f2", result[2].FileID)
	})

	t.Run("access counts sum to events with a file id", func(t *testing.T) {
		events := []models.Event{
			download("alice", "f1", "2025-01-15T10:00:00"),
			download("bob", "", "2025-01-15T10:01:00"),
			download("", "f1", "2025-01-15T10:02:00"),
			download("carol", "f2", "2025-01-15T10:03:00"),
		}

		result := agg.ByFile(events)
		total := 0
		for _, fileStat := range result {
			total += fileStat.AccessCount
		}
		assert.Equal(t, 3, total)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, agg.ByFile(nil))
	})
}

func TestByUserAndFile(t *testing.T) {
	agg := New(logging.Discard())

	t.Run("keys on user and file", func(t *testing.T) {
		events := []models.Event{
			download("alice", "f1", "2025-01-15T10:00:00"),
			download("alice", "f1", "2025-01-15T11:00:00"),
			download("alice", "f2", "2025-01-15T10:30:00"),
			download("bob", "f1", "2025-01-15T10:45:00"),
		}

		result := agg.ByUserAndFile(events)
		require.Len(t, result, 3)
		assert.Equal(t, "alice", result[0].UserLogin)
		assert.Equal(t, "f1", result[0].FileID)
		assert.Equal(t, 2, result[0].AccessCount)
	})

	t.Run("last access is the lexicographic max", func(t *testing.T) {
		events := []models.Event{
			download("alice", "f1", "2025-01-15T11:00:00"),
			download("alice", "f1", "2025-01-15T09:00:00"),
		}

		result := agg.ByUserAndFile(events)
		require.Len(t, result, 1)
		assert.Equal(t, "2025-01-15T11:00:00", result[0].LastAccessAt)
	})

	t.Run("skips events missing either key", func(t *testing.T) {
		events := []models.Event{
			download("", "f1", "2025-01-15T10:00:00"),
			download("alice", "", "2025-01-15T10:01:00"),
		}
		assert.Empty(t, agg.ByUserAndFile(events))
	})
}

func TestByUser(t *testing.T) {
	agg := New(logging.Discard())

	t.Run("splits downloads and previews", func(t *testing.T) {
		events := []models.Event{
			event("alice", "Alice A", "f1", "a.pdf", "2025-01-15T10:00:00", models.EventTypeDownload),
			event("alice", "Alice A", "f2", "b.pdf", "2025-01-15T10:01:00", models.EventTypePreview),
			event("alice", "Alice A", "f1", "a.pdf", "2025-01-15T10:02:00", ""),
		}

		stats := agg.ByUser(events)
		require.Contains(t, stats, "alice")
		alice := stats["alice"]
		assert.Equal(t, 3, alice.TotalCount)
		assert.Equal(t, 2, alice.DownloadCount)
		assert.Equal(t, 1, alice.PreviewCount)
		assert.Equal(t, 2, alice.UniqueFileCount)
		assert.Equal(t, alice.TotalCount, alice.DownloadCount+alice.PreviewCount)
		assert.Len(t, alice.Events, 3)
	})

	t.Run("events without a file id count toward totals only", func(t *testing.T) {
		events := []models.Event{
			download("bob", "", "2025-01-15T10:00:00"),
			download("bob", "f1", "2025-01-15T10:01:00"),
		}

		stats := agg.ByUser(events)
		bob := stats["bob"]
		assert.Equal(t, 2, bob.TotalCount)
		assert.Equal(t, 1, bob.UniqueFileCount)
	})

	t.Run("skips events without a login", func(t *testing.T) {
		events := []models.Event{download("", "f1", "2025-01-15T10:00:00")}
		assert.Empty(t, agg.ByUser(events))
	})

	t.Run("total equals downloads plus previews for every user", func(t *testing.T) {
		events := []models.Event{
			event("alice", "Alice", "f1", "a", "2025-01-15T10:00:00", models.EventTypePreview),
			event("bob", "Bob", "f1", "a", "2025-01-15T10:01:00", models.EventTypeDownload),
			event("bob", "Bob", "f2", "b", "2025-01-15T10:02:00", models.EventTypePreview),
		}

		for _, userStat := range agg.ByUser(events) {
			assert.Equal(t, userStat.TotalCount, userStat.DownloadCount+userStat.PreviewCount)
		}
	})
}

func TestUserEvents(t *testing.T) {
	agg := New(logging.Discard())
	events := []models.Event{
		download("alice", "f1", "2025-01-15T10:00:00"),
		download("bob", "f1", "2025-01-15T10:01:00"),
		download("alice", "f2", "2025-01-15T10:02:00"),
	}

	result := agg.UserEvents(events, "alice")
	require.Len(t, result, 2)
	assert.Equal(t, "f1", result[0].FileID)
	assert.Equal(t, "f2", result[1].FileID)

	assert.Empty(t, agg.UserEvents(events, "nobody"))
}
