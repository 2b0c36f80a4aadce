// Package detector classifies aggregated access statistics as anomalous
// under four independent rules: total volume, unique-file touch, off-hour
// access and short-burst spikes. Detection is a pure, one-shot
// classification of the data it is given; malformed records degrade the
// result instead of aborting the run.
package detector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/naka-dai/box-access-audit/internal/logging"
	"github.com/naka-dai/box-access-audit/internal/models"
)

// Thresholds holds the detection rule configuration. All thresholds are
// inclusive lower bounds: a value equal to its threshold triggers the rule.
type Thresholds struct {
	DownloadCount      int
	UniqueFiles        int
	OffHour            int
	SpikeWindowMinutes int
	SpikeThreshold     int
}

// Detector evaluates aggregated user statistics against the configured
// thresholds.
type Detector struct {
	thresholds Thresholds
	logger     *logging.Logger
}

// New creates a new Detector with the given thresholds and log sink.
func New(thresholds Thresholds, logger *logging.Logger) *Detector {
	if logger == nil {
		logger = logging.Default()
	}
	return &Detector{thresholds: thresholds, logger: logger}
}

// OffHourFinding is a single user's off-hour rule hit.
type OffHourFinding struct {
	UserLogin string
	Count     int
	Threshold int
}

// DetectBasic evaluates the volume and unique-files rules. Users triggering
// neither rule are omitted. Entry order within a record is volume first,
// then unique files.
func (d *Detector) DetectBasic(stats map[string]*models.UserAggregate) map[string]*models.AnomalyRecord {
	anomalous := make(map[string]*models.AnomalyRecord)

	for login, agg := range stats {
		var types []models.AnomalyType

		if agg.TotalCount >= d.thresholds.DownloadCount {
			types = append(types, models.AnomalyType{
				Kind:      models.KindDownloadCount,
				Value:     agg.TotalCount,
				Threshold: d.thresholds.DownloadCount,
			})
		}
		if agg.UniqueFileCount >= d.thresholds.UniqueFiles {
			types = append(types, models.AnomalyType{
				Kind:      models.KindUniqueFiles,
				Value:     agg.UniqueFileCount,
				Threshold: d.thresholds.UniqueFiles,
			})
		}

		if len(types) > 0 {
			record := recordFromAggregate(agg)
			record.AnomalyTypes = types
			anomalous[login] = record
		}
	}

	d.logger.Info("basic anomaly detection completed", "anomalous_users", len(anomalous))
	return anomalous
}

// DetectOffHour evaluates the off-hour rule over pre-tallied counts.
func (d *Detector) DetectOffHour(offhourCounts map[string]int) map[string]OffHourFinding {
	findings := make(map[string]OffHourFinding)

	for login, count := range offhourCounts {
		if count >= d.thresholds.OffHour {
			findings[login] = OffHourFinding{
				UserLogin: login,
				Count:     count,
				Threshold: d.thresholds.OffHour,
			}
		}
	}

	d.logger.Info("off-hour anomaly detection completed", "anomalous_users", len(findings))
	return findings
}

// DetectAll runs every detection rule and merges the results into one
// record per flagged user. Merge order determines entry order: basic rule
// entries first, then off-hour, then spike. Users flagged only by the
// off-hour or spike rules get a record backfilled from their aggregate.
func (d *Detector) DetectAll(stats map[string]*models.UserAggregate, offhourCounts map[string]int) map[string]*models.AnomalyRecord {
	anomalous := d.DetectBasic(stats)
	offhour := d.DetectOffHour(offhourCounts)
	spikes := d.DetectSpikes(stats)

	for login, finding := range offhour {
		record, ok := anomalous[login]
		if !ok {
			record = recordFromAggregate(stats[login])
			record.UserLogin = login
			anomalous[login] = record
		}
		record.AnomalyTypes = append(record.AnomalyTypes, models.AnomalyType{
			Kind:      models.KindOffHour,
			Value:     finding.Count,
			Threshold: finding.Threshold,
		})
	}

	for login, finding := range spikes {
		record, ok := anomalous[login]
		if !ok {
			record = recordFromAggregate(stats[login])
			record.UserLogin = login
			record.UserName = finding.UserName
			anomalous[login] = record
		}
		record.AnomalyTypes = append(record.AnomalyTypes, models.AnomalyType{
			Kind:          models.KindSpike,
			Value:         finding.MaxInWindow,
			Threshold:     finding.Threshold,
			WindowMinutes: finding.WindowMinutes,
			SpikeStartAt:  finding.SpikeStartAt,
		})
	}

	d.logger.Info("anomaly detection completed", "anomalous_users", len(anomalous))
	return anomalous
}

// Summary renders a human-readable multi-line report of the detected
// anomalies. Users are listed by login so the output is deterministic.
func (d *Detector) Summary(anomalous map[string]*models.AnomalyRecord) string {
	if len(anomalous) == 0 {
		return "No anomalies detected."
	}

	logins := make([]string, 0, len(anomalous))
	for login := range anomalous {
		logins = append(logins, login)
	}
	sort.Strings(logins)

	lines := []string{fmt.Sprintf("Detected %d anomalous users:", len(anomalous))}
	for _, login := range logins {
		record := anomalous[login]
		name := record.UserName
		if name == "" {
			name = "Unknown"
		}

		descriptions := make([]string, 0, len(record.AnomalyTypes))
		for _, entry := range record.AnomalyTypes {
			switch entry.Kind {
			case models.KindDownloadCount:
				descriptions = append(descriptions,
					fmt.Sprintf("Downloads: %d (threshold: %d)", entry.Value, entry.Threshold))
			case models.KindUniqueFiles:
				descriptions = append(descriptions,
					fmt.Sprintf("Unique files: %d (threshold: %d)", entry.Value, entry.Threshold))
			case models.KindOffHour:
				descriptions = append(descriptions,
					fmt.Sprintf("Off-hour downloads: %d (threshold: %d)", entry.Value, entry.Threshold))
			case models.KindSpike:
				descriptions = append(descriptions,
					fmt.Sprintf("Spike: %d downloads in %d minutes (threshold: %d)",
						entry.Value, entry.WindowMinutes, entry.Threshold))
			}
		}

		lines = append(lines, fmt.Sprintf("  - %s (%s): %s", name, login, strings.Join(descriptions, ", ")))
	}

	return strings.Join(lines, "\n")
}

// recordFromAggregate denormalizes a user aggregate into a fresh anomaly
// record with no entries. A nil aggregate yields an empty record, matching
// the degrade-not-abort failure semantics.
func recordFromAggregate(agg *models.UserAggregate) *models.AnomalyRecord {
	if agg == nil {
		return &models.AnomalyRecord{}
	}
	return &models.AnomalyRecord{
		UserLogin:       agg.UserLogin,
		UserName:        agg.UserName,
		TotalCount:      agg.TotalCount,
		DownloadCount:   agg.DownloadCount,
		PreviewCount:    agg.PreviewCount,
		UniqueFileCount: agg.UniqueFileCount,
		Events:          agg.Events,
	}
}
