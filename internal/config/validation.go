package config

import (
	"fmt"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validatePolling()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validatePrinters()...)

	return errors
}

func (c *Config) validatePolling() []ValidationError {
	var errors []ValidationError

	if c.PollIntervalSeconds < 1 {
		errors = append(errors, ValidationError{
			Path:    "poll_interval_seconds",
			Message: fmt.Sprintf("must be at least 1, got %d", c.PollIntervalSeconds),
		})
	}

	if c.WindowMinutes < 1 {
		errors = append(errors, ValidationError{
			Path:    "window_minutes",
			Message: fmt.Sprintf("must be at least 1, got %d", c.WindowMinutes),
		})
	}

	if c.HeartbeatWarnMinutes < 1 {
		errors = append(errors, ValidationError{
			Path:    "heartbeat_warn_minutes",
			Message: fmt.Sprintf("must be at least 1, got %d", c.HeartbeatWarnMinutes),
		})
	}

	if c.SheetTab == "" {
		errors = append(errors, ValidationError{
			Path:    "sheet_tab",
			Message: "must not be empty",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		errors = append(errors, ValidationError{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got '%s'", validLevels, c.Logging.Level),
		})
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, c.Logging.Format) {
		errors = append(errors, ValidationError{
			Path:    "logging.format",
			Message: fmt.Sprintf("must be one of %v, got '%s'", validFormats, c.Logging.Format),
		})
	}

	return errors
}

func (c *Config) validatePrinters() []ValidationError {
	var errors []ValidationError

	for _, name := range c.PrinterNames() {
		p := c.Printers[name]
		path := "printers." + name

		if p.MediaFactor < 1 {
			errors = append(errors, ValidationError{
				Path:    path + ".media_factor",
				Message: fmt.Sprintf("must be at least 1, got %d", p.MediaFactor),
			})
		}

		if p.WarningThreshold < 0 {
			errors = append(errors, ValidationError{
				Path:    path + ".warning_threshold",
				Message: fmt.Sprintf("must not be negative, got %d", p.WarningThreshold),
			})
		}

		if p.MaxPrints < 1 {
			errors = append(errors, ValidationError{
				Path:    path + ".max_prints",
				Message: fmt.Sprintf("must be at least 1, got %d", p.MaxPrints),
			})
		}

		if p.CostPerRollEUR < 0 {
			errors = append(errors, ValidationError{
				Path:    path + ".cost_per_roll_eur",
				Message: fmt.Sprintf("must not be negative, got %v", p.CostPerRollEUR),
			})
		}
	}

	if c.DefaultPrinter != "" && len(c.Printers) > 0 {
		if _, ok := c.Printers[c.DefaultPrinter]; !ok {
			errors = append(errors, ValidationError{
				Path:    "default_printer",
				Message: fmt.Sprintf("'%s' has no profile", c.DefaultPrinter),
			})
		}
	}

	return errors
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
