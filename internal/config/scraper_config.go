package config

import "github.com/spf13/viper"

type ScraperConfig struct {
	BaseURL              string  `mapstructure:"base_url"`
	MaxRequestsPerSecond float32 `mapstructure:"max_requests_per_second"`
}

func (config ScraperConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("scraper.base_url", "SCRAPER_BASE_URL"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("scraper.max_requests_per_second", "SCRAPER_MAX_REQUESTS_PER_SECOND"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
