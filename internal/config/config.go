// Package config loads batch configuration with the cascade
// defaults -> config file -> BOXAUDIT_ environment variables.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/naka-dai/box-access-audit/internal/detector"
	"github.com/naka-dai/box-access-audit/internal/models"
)

// Config holds all configuration for the audit batch.
type Config struct {
	Alert         AlertConfig         `mapstructure:"alert"`
	BusinessHours BusinessHoursConfig `mapstructure:"business_hours"`
	Log           LogConfig           `mapstructure:"log"`
}

// AlertConfig holds anomaly detection thresholds and exclusions.
type AlertConfig struct {
	Enabled                bool     `mapstructure:"enabled"`
	DownloadCountThreshold int      `mapstructure:"download_count_threshold"`
	UniqueFilesThreshold   int      `mapstructure:"unique_files_threshold"`
	OffHourThreshold       int      `mapstructure:"offhour_threshold"`
	SpikeWindowMinutes     int      `mapstructure:"spike_window_minutes"`
	SpikeThreshold         int      `mapstructure:"spike_threshold"`
	ExcludeUsers           []string `mapstructure:"exclude_users"`
}

// BusinessHoursConfig holds the daily window during which access is
// considered normal, as "HH:MM" strings (minutes optional).
type BusinessHoursConfig struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("alert.enabled", true)
	v.SetDefault("alert.download_count_threshold", 200)
	v.SetDefault("alert.unique_files_threshold", 100)
	v.SetDefault("alert.offhour_threshold", 50)
	v.SetDefault("alert.spike_window_minutes", 60)
	v.SetDefault("alert.spike_threshold", 100)
	v.SetDefault("alert.exclude_users", []string{})

	v.SetDefault("business_hours.start", "08:00")
	v.SetDefault("business_hours.end", "20:00")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read from config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override file config
	v.SetEnvPrefix("BOXAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks threshold signs and the business-hours window. Windows
// wrapping past midnight are rejected here rather than silently
// misclassifying every event downstream.
func (c *Config) Validate() error {
	thresholds := map[string]int{
		"alert.download_count_threshold": c.Alert.DownloadCountThreshold,
		"alert.unique_files_threshold":   c.Alert.UniqueFilesThreshold,
		"alert.offhour_threshold":        c.Alert.OffHourThreshold,
		"alert.spike_window_minutes":     c.Alert.SpikeWindowMinutes,
		"alert.spike_threshold":          c.Alert.SpikeThreshold,
	}
	for name, value := range thresholds {
		if value <= 0 {
			return fmt.Errorf("%s must be greater than 0", name)
		}
	}

	hours, err := c.BusinessHoursWindow()
	if err != nil {
		return err
	}
	if hours.StartMinutes() >= hours.EndMinutes() {
		return fmt.Errorf("business hours window %s-%s must not wrap past midnight",
			c.BusinessHours.Start, c.BusinessHours.End)
	}

	return nil
}

// Thresholds returns the detector configuration.
func (c *Config) Thresholds() detector.Thresholds {
	return detector.Thresholds{
		DownloadCount:      c.Alert.DownloadCountThreshold,
		UniqueFiles:        c.Alert.UniqueFilesThreshold,
		OffHour:            c.Alert.OffHourThreshold,
		SpikeWindowMinutes: c.Alert.SpikeWindowMinutes,
		SpikeThreshold:     c.Alert.SpikeThreshold,
	}
}

// BusinessHoursWindow parses the configured "HH:MM" boundaries.
func (c *Config) BusinessHoursWindow() (models.BusinessHours, error) {
	startHour, startMinute, err := parseClock(c.BusinessHours.Start)
	if err != nil {
		return models.BusinessHours{}, fmt.Errorf("invalid business_hours.start: %w", err)
	}
	endHour, endMinute, err := parseClock(c.BusinessHours.End)
	if err != nil {
		return models.BusinessHours{}, fmt.Errorf("invalid business_hours.end: %w", err)
	}
	return models.BusinessHours{
		StartHour:   startHour,
		StartMinute: startMinute,
		EndHour:     endHour,
		EndMinute:   endMinute,
	}, nil
}

// parseClock parses "HH:MM" or "HH"; minutes default to 0 when omitted.
func parseClock(s string) (int, int, error) {
	parts := strings.SplitN(s, ":", 2)

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	if hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("hour out of range in %q", s)
	}

	minute := 0
	if len(parts) == 2 {
		minute, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid minute in %q", s)
		}
		if minute < 0 || minute > 59 {
			return 0, 0, fmt.Errorf("minute out of range in %q", s)
		}
	}

	return hour, minute, nil
}
