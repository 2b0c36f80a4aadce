package models

// AnomalyKind identifies which detection rule produced an anomaly entry.
type AnomalyKind string

const (
	// Tier 1 rules evaluated on every batch
	KindDownloadCount AnomalyKind = "download_count"
	KindUniqueFiles   AnomalyKind = "unique_files"
	KindOffHour       AnomalyKind = "offhour"
	KindSpike         AnomalyKind = "spike"
)

// IsValid checks if the anomaly kind is known.
func (k AnomalyKind) IsValid() bool {
	switch k {
	case KindDownloadCount, KindUniqueFiles, KindOffHour, KindSpike:
		return true
	default:
		return false
	}
}

// AnomalyType is one triggered rule with its observed value and the
// threshold it breached. WindowMinutes and SpikeStartAt are set only for
// spike entries.
type AnomalyType struct {
	Kind          AnomalyKind `json:"type"`
	Value         int         `json:"value"`
	Threshold     int         `json:"threshold"`
	WindowMinutes int         `json:"window_minutes,omitempty"`
	SpikeStartAt  string      `json:"spike_start_at,omitempty"`
}

// AnomalyRecord collects every rule a single user triggered, together with
// a denormalized copy of that user's aggregate counters. Entries appear in
// detection order: basic rules first, then offhour, then spike.
type AnomalyRecord struct {
	UserLogin       string        `json:"user_login"`
	UserName        string        `json:"user_name"`
	TotalCount      int           `json:"total_count"`
	DownloadCount   int           `json:"download_count"`
	PreviewCount    int           `json:"preview_count"`
	UniqueFileCount int           `json:"unique_file_count"`
	Events          []Event       `json:"-"`
	AnomalyTypes    []AnomalyType `json:"anomaly_types"`
}
