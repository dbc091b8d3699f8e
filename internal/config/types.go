package config

// Config represents the complete boothmon configuration
type Config struct {
	PollIntervalSeconds  int                       `yaml:"poll_interval_seconds"`
	WindowMinutes        int                       `yaml:"window_minutes"`
	HeartbeatWarnMinutes int                       `yaml:"heartbeat_warn_minutes"`
	Timezone             string                    `yaml:"timezone"`
	SheetTab             string                    `yaml:"sheet_tab"`
	DefaultPrinter       string                    `yaml:"default_printer"`
	Ntfy                 NtfyConfig                `yaml:"ntfy"`
	Logging              LoggingConfig             `yaml:"logging"`
	Printers             map[string]PrinterProfile `yaml:"printers"`
}

// NtfyConfig represents the push relay used for lock/unlock signals.
// The topic is a secret and comes from the environment, not from here.
type NtfyConfig struct {
	BaseURL string `yaml:"base_url"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// PrinterProfile is the static per-printer configuration: how raw media
// units map to printable pages and when to warn about paper.
type PrinterProfile struct {
	Key              string  `yaml:"key"`
	MediaFactor      int     `yaml:"media_factor"`
	WarningThreshold int     `yaml:"warning_threshold"`
	MaxPrints        int     `yaml:"max_prints"`
	CostPerRollEUR   float64 `yaml:"cost_per_roll_eur"`
	HasAdmin         bool    `yaml:"has_admin"`
	HasAqara         bool    `yaml:"has_aqara"`
	HasDSR           bool    `yaml:"has_dsr"`
	SheetEnvKey      string  `yaml:"sheet_env_key"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Path + ": " + e.Message
}
