package models

import (
	"fmt"
	"time"
)

// EventType classifies how a file was accessed.
type EventType string

const (
	EventTypeDownload EventType = "DOWNLOAD"
	EventTypePreview  EventType = "PREVIEW"
)

// Event is a single file-access record exported from the storage platform.
// Timestamps are local-zone (JST) ISO-8601 strings without normalization;
// they are parsed only where time arithmetic is required.
type Event struct {
	EventID      string    `json:"event_id"`
	EventType    EventType `json:"event_type"`
	UserLogin    string    `json:"user_login"`
	UserName     string    `json:"user_name"`
	FileID       string    `json:"file_id"`
	FileName     string    `json:"file_name"`
	DownloadedAt string    `json:"download_at_jst"`
	SourceIP     string    `json:"source_ip"`
}

// Type returns the event type, defaulting to DOWNLOAD when absent.
func (e Event) Type() EventType {
	if e.EventType == "" {
		return EventTypeDownload
	}
	return e.EventType
}

// eventTimeLayouts are the timestamp formats accepted from exports. The
// platform emits naive local timestamps; both "T" and space separators
// appear in practice, with or without a zone offset.
var eventTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05Z07:00",
}

// ParseEventTime parses an event timestamp string.
func ParseEventTime(s string) (time.Time, error) {
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized event timestamp %q", s)
}
