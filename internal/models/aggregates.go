package models

// FileAggregate is the per-file access rollup.
type FileAggregate struct {
	FileID      string `json:"file_id"`
	FileName    string `json:"file_name"`
	AccessCount int    `json:"access_count"`
}

// UserFileAggregate is the per-(user, file) access rollup. LastAccessAt is
// the lexicographic max over the contributing timestamp strings, which is
// chronological as long as all exports share one format and zone.
type UserFileAggregate struct {
	UserLogin    string `json:"user_login"`
	UserName     string `json:"user_name"`
	FileID       string `json:"file_id"`
	FileName     string `json:"file_name"`
	AccessCount  int    `json:"access_count"`
	LastAccessAt string `json:"last_access_at"`
}

// UserAggregate is the per-user access rollup. The contributing events are
// retained in input order for downstream spike analysis.
type UserAggregate struct {
	UserLogin       string  `json:"user_login"`
	UserName        string  `json:"user_name"`
	TotalCount      int     `json:"total_count"`
	DownloadCount   int     `json:"download_count"`
	PreviewCount    int     `json:"preview_count"`
	UniqueFileCount int     `json:"unique_file_count"`
	Events          []Event `json:"-"`
}

// BusinessHours is the daily window during which access is considered
// normal. The start boundary is inclusive, the end boundary exclusive: an
// event exactly at the end time is off-hour. Windows wrapping past midnight
// (start after end) are not supported.
type BusinessHours struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// StartMinutes returns the window start as minutes of day.
func (b BusinessHours) StartMinutes() int {
	return b.StartHour*60 + b.StartMinute
}

// EndMinutes returns the window end as minutes of day.
func (b BusinessHours) EndMinutes() int {
	return b.EndHour*60 + b.EndMinute
}
