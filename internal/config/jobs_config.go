package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type JobsConfig struct {
	Interval             time.Duration   `mapstructure:"interval"`
	MaxRetries           int             `mapstructure:"max_retries"`
	BackoffSchedule      []time.Duration `mapstructure:"backoff_schedule"`
	PauseThreshold       int             `mapstructure:"pause_threshold"`
	PauseDuration        time.Duration   `mapstructure:"pause_duration"`
	HistoryRetentionDays int             `mapstructure:"history_retention_days"`
}

func (config JobsConfig) validate() error {

	if config.Interval <= 0 {
		return fmt.Errorf("jobs interval must be positive, got %v", config.Interval)
	}

	if config.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1, got %d", config.MaxRetries)
	}

	if len(config.BackoffSchedule) < config.MaxRetries-1 {
		return fmt.Errorf("backoff_schedule needs at least %d entries, got %d",
			config.MaxRetries-1, len(config.BackoffSchedule))
	}

	if config.PauseThreshold < 1 {
		return fmt.Errorf("pause_threshold must be at least 1, got %d", config.PauseThreshold)
	}

	if config.PauseDuration <= 0 {
		return fmt.Errorf("pause_duration must be positive, got %v", config.PauseDuration)
	}

	if config.HistoryRetentionDays < 1 {
		return fmt.Errorf("history_retention_days must be at least 1, got %d", config.HistoryRetentionDays)
	}

	return nil
}

func (config JobsConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("jobs.interval", "JOBS_INTERVAL"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("jobs.max_retries", "JOBS_MAX_RETRIES"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("jobs.pause_threshold", "JOBS_PAUSE_THRESHOLD"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("jobs.pause_duration", "JOBS_PAUSE_DURATION"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("jobs.history_retention_days", "JOBS_HISTORY_RETENTION_DAYS"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
