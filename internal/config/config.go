package config

import (
	"time"

	"github.com/wonderdash/wonderdash/internal/core/domain"
	"github.com/wonderdash/wonderdash/internal/log"
)

// Config is the session-static configuration. The core treats these values
// as immutable once the app is bootstrapped.
type Config struct {
	Settings SettingsConfig `mapstructure:"settings"`
	AWS      AWSConfig      `mapstructure:"aws"`
	Targets  TargetsConfig  `mapstructure:"targets"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type SettingsConfig struct {
	LogLevel               log.Level  `mapstructure:"log_level"`
	LogFormat              log.Format `mapstructure:"log_format"`
	RefreshIntervalSeconds int        `mapstructure:"refresh_interval_seconds" validate:"gte=1"`
	CacheTTLSeconds        int        `mapstructure:"cache_ttl_seconds" validate:"gte=1"`
	ConcurrencyBudget      int        `mapstructure:"concurrency_budget" validate:"gte=1,lte=32"`
	APIRateLimitRPS        int        `mapstructure:"api_rate_limit_rps" validate:"gte=0,lte=100"`
	DefaultSection         string     `mapstructure:"default_section" validate:"omitempty,oneof=hub identity compute storage delivery logs"`
	NoColor                bool       `mapstructure:"no_color"`
}

type AWSConfig struct {
	Profile string `mapstructure:"profile"`
	Region  string `mapstructure:"region" validate:"required"`
}

type TargetsConfig struct {
	DistributionID string `mapstructure:"distribution_id"`
	LogGroupPrefix string `mapstructure:"log_group_prefix"`
}

type MetricsConfig struct {
	PeriodSeconds int `mapstructure:"period_seconds" validate:"gte=1"`
	WindowMinutes int `mapstructure:"window_minutes" validate:"gte=1"`
}

func DefaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			LogLevel:               log.LevelInfo,
			LogFormat:              log.FormatText,
			RefreshIntervalSeconds: 5,
			CacheTTLSeconds:        30,
			ConcurrencyBudget:      2,
			APIRateLimitRPS:        20,
			DefaultSection:         string(domain.SectionHub),
		},
		AWS: AWSConfig{
			Region: "us-east-1",
		},
		Metrics: MetricsConfig{
			PeriodSeconds: 300,
			WindowMinutes: 60,
		},
	}
}

// Normalize fixes values the remote API would reject rather than erroring:
// CloudFront metrics require the period to be a 60-second multiple.
func (c *Config) Normalize() {
	if c.Metrics.PeriodSeconds < 60 {
		c.Metrics.PeriodSeconds = 60
	}
	if rem := c.Metrics.PeriodSeconds % 60; rem != 0 {
		c.Metrics.PeriodSeconds += 60 - rem
	}
}

func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Settings.RefreshIntervalSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Settings.CacheTTLSeconds) * time.Second
}

func (c *Config) MetricPeriod() time.Duration {
	return time.Duration(c.Metrics.PeriodSeconds) * time.Second
}

func (c *Config) MetricWindow() time.Duration {
	return time.Duration(c.Metrics.WindowMinutes) * time.Minute
}

func (c *Config) Section() domain.DashboardSection {
	if c.Settings.DefaultSection == "" {
		return domain.SectionHub
	}
	return domain.DashboardSection(c.Settings.DefaultSection)
}
