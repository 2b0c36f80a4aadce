package logging

import "log/slog"

// Common field names for consistent logging across the batch.
const (
	FieldUserLogin = "user_login"
	FieldUserName  = "user_name"
	FieldFileID    = "file_id"
	FieldEventID   = "event_id"
	FieldTimestamp = "timestamp"
	FieldCount     = "count"
	FieldThreshold = "threshold"
	FieldError     = "error"
)

// UserLogin returns a slog attribute for a user login.
func UserLogin(login string) slog.Attr {
	return slog.String(FieldUserLogin, login)
}

// FileID returns a slog attribute for a file ID.
func FileID(id string) slog.Attr {
	return slog.String(FieldFileID, id)
}

// EventID returns a slog attribute for an event ID.
func EventID(id string) slog.Attr {
	return slog.String(FieldEventID, id)
}

// Timestamp returns a slog attribute for a raw event timestamp string.
func Timestamp(ts string) slog.Attr {
	return slog.String(FieldTimestamp, ts)
}

// Count returns a slog attribute for a tally.
func Count(n int) slog.Attr {
	return slog.Int(FieldCount, n)
}

// Threshold returns a slog attribute for a configured threshold.
func Threshold(n int) slog.Attr {
	return slog.Int(FieldThreshold, n)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
