package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"boothmon/internal/configdir"
)

const (
	systemConfigFile = "config.yaml"
	userConfigDir    = ".boothmon"
	userConfigFile   = "config.yaml"
)

// Load loads and merges configuration from system and user files
// Priority: defaults < system config < user config
func Load() (Config, error) {
	cfg := DefaultConfig()

	systemPath := filepath.Join(configdir.ConfigDir(), systemConfigFile)
	if err := mergeConfigFile(&cfg, systemPath); err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to load system config: %w", err)
		}
		// System config not existing is OK, continue with defaults
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		userPath := filepath.Join(homeDir, userConfigDir, userConfigFile)
		if err := mergeConfigFile(&cfg, userPath); err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("failed to load user config: %w", err)
			}
			// User config not existing is OK
		}
	}

	if validationErrors := cfg.Validate(); len(validationErrors) > 0 {
		return cfg, fmt.Errorf("config.validation.error: %v", formatValidationErrors(validationErrors))
	}

	return cfg, nil
}

// LoadFrom loads configuration from a specific file path
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := mergeConfigFile(&cfg, path); err != nil {
		return cfg, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if validationErrors := cfg.Validate(); len(validationErrors) > 0 {
		return cfg, fmt.Errorf("config.validation.error: %v", formatValidationErrors(validationErrors))
	}

	return cfg, nil
}

// mergeConfigFile reads a YAML file and merges it into the existing config
func mergeConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- path is constructed from trusted sources
	if err != nil {
		return err
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfig(cfg, &overlay)

	return nil
}

// mergeConfig merges non-zero values from src into dst
func mergeConfig(dst, src *Config) {
	if src.PollIntervalSeconds != 0 {
		dst.PollIntervalSeconds = src.PollIntervalSeconds
	}
	if src.WindowMinutes != 0 {
		dst.WindowMinutes = src.WindowMinutes
	}
	if src.HeartbeatWarnMinutes != 0 {
		dst.HeartbeatWarnMinutes = src.HeartbeatWarnMinutes
	}
	if src.Timezone != "" {
		dst.Timezone = src.Timezone
	}
	if src.SheetTab != "" {
		dst.SheetTab = src.SheetTab
	}
	if src.DefaultPrinter != "" {
		dst.DefaultPrinter = src.DefaultPrinter
	}
	if src.Ntfy.BaseURL != "" {
		dst.Ntfy.BaseURL = src.Ntfy.BaseURL
	}
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		dst.Logging.Format = src.Logging.Format
	}
	// Printer profiles replace wholesale per name; merging individual
	// fields of a profile would make half-written overlays look valid.
	for name, profile := range src.Printers {
		if dst.Printers == nil {
			dst.Printers = map[string]PrinterProfile{}
		}
		dst.Printers[name] = profile
	}
}

// Location resolves the configured timezone, falling back to UTC when the
// zone database has no entry for it.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// PollInterval returns the poll cadence as a duration.
func (c Config) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// HeartbeatWarn returns the staleness threshold as a duration.
func (c Config) HeartbeatWarn() time.Duration {
	if c.HeartbeatWarnMinutes <= 0 {
		return 60 * time.Minute
	}
	return time.Duration(c.HeartbeatWarnMinutes) * time.Minute
}

// formatValidationErrors formats validation errors for display
func formatValidationErrors(errors []ValidationError) string {
	if len(errors) == 0 {
		return ""
	}
	if len(errors) == 1 {
		return errors[0].Error()
	}
	result := fmt.Sprintf("%d validation errors:\n", len(errors))
	for _, err := range errors {
		result += "  - " + err.Error() + "\n"
	}
	return result
}

// SystemConfigPath returns the path to the system configuration file
func SystemConfigPath() string {
	return filepath.Join(configdir.ConfigDir(), systemConfigFile)
}

// UserConfigPath returns the path to the user configuration file
func UserConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, userConfigDir, userConfigFile)
}

func sortStrings(s []string) {
	sort.Strings(s)
}
