package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type NotifierConfig struct {
	TelegramToken string     `mapstructure:"telegram_token"`
	AdminChatID   int64      `mapstructure:"admin_chat_id"`
	SMTP          SMTPConfig `mapstructure:"smtp"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

func (config NotifierConfig) validate() error {

	var missingFields []string

	if config.TelegramToken == "" {
		missingFields = append(missingFields, "telegram_token")
	}

	if config.SMTP.Host == "" {
		missingFields = append(missingFields, "smtp.host")
	}

	if config.SMTP.From == "" {
		missingFields = append(missingFields, "smtp.from")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	return nil
}

func (config NotifierConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("notifier.telegram_token", "TELEGRAM_TOKEN"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("notifier.admin_chat_id", "ADMIN_CHAT_ID"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("notifier.smtp.host", "SMTP_HOST"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("notifier.smtp.port", "SMTP_PORT"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("notifier.smtp.username", "SMTP_USERNAME"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("notifier.smtp.password", "SMTP_PASSWORD"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("notifier.smtp.from", "SMTP_FROM"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
