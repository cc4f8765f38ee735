package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charliek/syslogdash/internal/constants"
	"github.com/charliek/syslogdash/internal/domain"
)

// Validate checks the configuration for errors
func Validate(config *Config) error {
	var errs []string

	if err := ValidateAPIURL(config.API.URL); err != nil {
		errs = append(errs, fmt.Sprintf("api.url: %v", err))
	}
	if d, err := time.ParseDuration(config.API.Timeout); err != nil || d <= 0 {
		errs = append(errs, fmt.Sprintf("api.timeout: must be a positive duration, got %q", config.API.Timeout))
	}

	if config.Dashboard.InitialLimit < 1 || config.Dashboard.InitialLimit > constants.MaxFetchLimit {
		errs = append(errs, fmt.Sprintf("dashboard.initial_limit: must be between 1 and %d, got %d",
			constants.MaxFetchLimit, config.Dashboard.InitialLimit))
	}
	if d, err := time.ParseDuration(config.Dashboard.AutoRefresh); err != nil || d < 0 {
		errs = append(errs, fmt.Sprintf("dashboard.auto_refresh: must be a non-negative duration, got %q", config.Dashboard.AutoRefresh))
	}

	switch config.Logging.Output {
	case "file", "stderr", "none":
	default:
		errs = append(errs, fmt.Sprintf("logging.output: must be file, stderr or none, got %q", config.Logging.Output))
	}
	switch strings.ToLower(config.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level: unknown level %q", config.Logging.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(errs, "; "))
	}

	return nil
}

// ValidateAPIURL checks that raw is an absolute http or https URL
func ValidateAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
