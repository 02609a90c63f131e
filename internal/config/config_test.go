package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_Config_EnvironmentOverrideWorksCorrect(t *testing.T) {

	os.Setenv("CONFIG_PATH", "../../configs/config.yaml")

	os.Setenv("DB_CONNECTION_STRING", "override.db")
	os.Setenv("LOG_LEVEL", "DEBUG")
	os.Setenv("JOBS_INTERVAL", "2h")
	os.Setenv("JOBS_MAX_RETRIES", "2")
	os.Setenv("JOBS_PAUSE_THRESHOLD", "5")
	os.Setenv("JOBS_PAUSE_DURATION", "12h")
	os.Setenv("JOBS_HISTORY_RETENTION_DAYS", "30")
	os.Setenv("SCRAPER_BASE_URL", "http://localhost:9999")
	os.Setenv("TELEGRAM_TOKEN", "overrideToken")
	os.Setenv("ADMIN_CHAT_ID", "12345")
	os.Setenv("SMTP_HOST", "smtp.example.com")
	os.Setenv("SMTP_FROM", "monitor@example.com")

	cfg := Get()

	assert.Equal(t, "override.db", cfg.DB.ConnectionString)
	assert.Equal(t, LevelDebug, cfg.Logger.LogLevel)
	assert.Equal(t, 2*time.Hour, cfg.Jobs.Interval)
	assert.Equal(t, 2, cfg.Jobs.MaxRetries)
	assert.Equal(t, 5, cfg.Jobs.PauseThreshold)
	assert.Equal(t, 12*time.Hour, cfg.Jobs.PauseDuration)
	assert.Equal(t, 30, cfg.Jobs.HistoryRetentionDays)
	assert.Equal(t, "http://localhost:9999", cfg.Scraper.BaseURL)
	assert.Equal(t, "overrideToken", cfg.Notifier.TelegramToken)
	assert.Equal(t, int64(12345), cfg.Notifier.AdminChatID)
	assert.Equal(t, "smtp.example.com", cfg.Notifier.SMTP.Host)
	assert.Equal(t, "monitor@example.com", cfg.Notifier.SMTP.From)

	// file-provided values survive where no override is set
	assert.Equal(t, []time.Duration{time.Minute, 2 * time.Minute, 3 * time.Minute}, cfg.Jobs.BackoffSchedule)
}

func Test_JobsConfig_Validation(t *testing.T) {

	valid := JobsConfig{
		Interval:             time.Hour,
		MaxRetries:           3,
		BackoffSchedule:      []time.Duration{time.Minute, 2 * time.Minute},
		PauseThreshold:       3,
		PauseDuration:        6 * time.Hour,
		HistoryRetentionDays: 90,
	}
	assert.NoError(t, valid.validate())

	noInterval := valid
	noInterval.Interval = 0
	assert.Error(t, noInterval.validate())

	shortBackoff := valid
	shortBackoff.BackoffSchedule = []time.Duration{time.Minute}
	shortBackoff.MaxRetries = 3
	assert.Error(t, shortBackoff.validate())
}
