// Package service orchestrates the audit pipeline: exclusion pre-filter,
// aggregation, off-hour tally, anomaly detection and summary rendering. The
// run is a pure function of the supplied event list; persistence, report
// rendering and delivery belong to downstream collaborators.
package service

import (
	"github.com/naka-dai/box-access-audit/internal/aggregator"
	"github.com/naka-dai/box-access-audit/internal/config"
	"github.com/naka-dai/box-access-audit/internal/detector"
	"github.com/naka-dai/box-access-audit/internal/logging"
	"github.com/naka-dai/box-access-audit/internal/models"
)

// Report is the full output of one audit run, handed to downstream
// CSV/report/mailer collaborators.
type Report struct {
	FileStats     []models.FileAggregate
	UserFileStats []models.UserFileAggregate
	UserStats     map[string]*models.UserAggregate
	OffHourCounts map[string]int
	Anomalies     map[string]*models.AnomalyRecord
	Summary       string
}

// Service runs the aggregation and detection pipeline over one event batch.
type Service struct {
	cfg      *config.Config
	agg      *aggregator.Aggregator
	det      *detector.Detector
	hours    models.BusinessHours
	excluded map[string]struct{}
	logger   *logging.Logger
}

// New creates a new Service. The business-hours window comes from cfg and
// must already have passed config validation.
func New(cfg *config.Config, logger *logging.Logger) (*Service, error) {
	if logger == nil {
		logger = logging.Default()
	}

	hours, err := cfg.BusinessHoursWindow()
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]struct{}, len(cfg.Alert.ExcludeUsers))
	for _, login := range cfg.Alert.ExcludeUsers {
		excluded[login] = struct{}{}
	}

	return &Service{
		cfg:      cfg,
		agg:      aggregator.New(logger),
		det:      detector.New(cfg.Thresholds(), logger),
		hours:    hours,
		excluded: excluded,
		logger:   logger,
	}, nil
}

// Run executes the pipeline over one batch of events. Events of excluded
// users (system and admin accounts) are filtered before any aggregation, so
// neither aggregates nor anomaly records mention them. When alerting is
// disabled the report carries aggregates only.
func (s *Service) Run(events []models.Event) *Report {
	events = s.filterExcluded(events)

	report := &Report{
		FileStats:     s.agg.ByFile(events),
		UserFileStats: s.agg.ByUserAndFile(events),
		UserStats:     s.agg.ByUser(events),
	}

	if !s.cfg.Alert.Enabled {
		s.logger.Info("alerting disabled, skipping anomaly detection")
		return report
	}

	report.OffHourCounts = s.agg.CountOffHourByUser(events, s.hours)
	report.Anomalies = s.det.DetectAll(report.UserStats, report.OffHourCounts)
	report.Summary = s.det.Summary(report.Anomalies)

	if len(report.Anomalies) > 0 {
		s.logger.Warn("anomalous users detected", logging.Count(len(report.Anomalies)))
	}

	return report
}

// filterExcluded drops events of excluded user logins.
func (s *Service) filterExcluded(events []models.Event) []models.Event {
	if len(s.excluded) == 0 {
		return events
	}

	kept := make([]models.Event, 0, len(events))
	for _, event := range events {
		if _, ok := s.excluded[event.UserLogin]; ok {
			continue
		}
		kept = append(kept, event)
	}

	if dropped := len(events) - len(kept); dropped > 0 {
		s.logger.Info("filtered events of excluded users", "dropped", dropped)
	}
	return kept
}
