package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"PollIntervalSeconds", cfg.PollIntervalSeconds, 10},
		{"WindowMinutes", cfg.WindowMinutes, 30},
		{"HeartbeatWarnMinutes", cfg.HeartbeatWarnMinutes, 60},
		{"Timezone", cfg.Timezone, "Europe/Vienna"},
		{"SheetTab", cfg.SheetTab, "DruckerStatus"},
		{"DefaultPrinter", cfg.DefaultPrinter, "die Fotobox"},
		{"NtfyBaseURL", cfg.Ntfy.BaseURL, "https://ntfy.sh"},
		{"LogLevel", cfg.Logging.Level, "info"},
		{"LogFormat", cfg.Logging.Format, "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("DefaultConfig().%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	if len(cfg.Printers) != 2 {
		t.Errorf("Expected 2 default printer profiles, got %d", len(cfg.Printers))
	}

	fotobox := cfg.Printers["die Fotobox"]
	if fotobox.MediaFactor != 1 || fotobox.WarningThreshold != 20 || fotobox.MaxPrints != 400 {
		t.Errorf("Unexpected fotobox profile: %+v", fotobox)
	}

	wein := cfg.Printers["Weinkellerei"]
	if wein.MediaFactor != 2 {
		t.Errorf("Weinkellerei media_factor = %d, want 2", wein.MediaFactor)
	}
}

func TestValidation_ValidConfig(t *testing.T) {
	cfg := DefaultConfig()
	errors := cfg.Validate()

	if len(errors) != 0 {
		t.Errorf("Validate() on default config returned errors: %v", errors)
	}
}

func TestValidation_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"poll interval", func(c *Config) { c.PollIntervalSeconds = 0 }, "poll_interval_seconds"},
		{"window", func(c *Config) { c.WindowMinutes = 0 }, "window_minutes"},
		{"heartbeat", func(c *Config) { c.HeartbeatWarnMinutes = 0 }, "heartbeat_warn_minutes"},
		{"sheet tab", func(c *Config) { c.SheetTab = "" }, "sheet_tab"},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{
			"media factor",
			func(c *Config) {
				p := c.Printers["die Fotobox"]
				p.MediaFactor = 0
				c.Printers["die Fotobox"] = p
			},
			"printers.die Fotobox.media_factor",
		},
		{
			"default printer without profile",
			func(c *Config) { c.DefaultPrinter = "Kiosk" },
			"default_printer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			errors := cfg.Validate()
			found := false
			for _, err := range errors {
				if err.Path == tt.path {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() errors %v missing path %s", errors, tt.path)
			}
		})
	}
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
poll_interval_seconds: 5
window_minutes: 15
default_printer: Weinkellerei
logging:
  level: debug
printers:
  Weinkellerei:
    key: Weinkellerei
    media_factor: 2
    warning_threshold: 10
    max_prints: 200
    cost_per_roll_eur: 60
`
	if err := os.WriteFile(path, []byte(yaml), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.PollIntervalSeconds != 5 {
		t.Errorf("PollIntervalSeconds = %d, want 5", cfg.PollIntervalSeconds)
	}
	if cfg.WindowMinutes != 15 {
		t.Errorf("WindowMinutes = %d, want 15", cfg.WindowMinutes)
	}
	// untouched values keep their defaults
	if cfg.HeartbeatWarnMinutes != 60 {
		t.Errorf("HeartbeatWarnMinutes = %d, want 60", cfg.HeartbeatWarnMinutes)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %s, want json", cfg.Logging.Format)
	}

	wein := cfg.Printers["Weinkellerei"]
	if wein.WarningThreshold != 10 || wein.MaxPrints != 200 {
		t.Errorf("Overlay profile not applied: %+v", wein)
	}
	// profiles not named in the overlay survive
	if _, ok := cfg.Printers["die Fotobox"]; !ok {
		t.Error("Expected default profile 'die Fotobox' to survive the merge")
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("poll_interval_seconds: [not an int"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() should fail on malformed YAML")
	}
}

func TestProfile_Fallback(t *testing.T) {
	cfg := DefaultConfig()

	p := cfg.Profile("Unbekannt")
	if p.MediaFactor != 1 || p.WarningThreshold != 20 || p.MaxPrints != 400 {
		t.Errorf("Fallback profile = %+v, want permissive defaults", p)
	}
	if p.CostPerRollEUR != 0 {
		t.Errorf("Fallback profile should have no cost, got %v", p.CostPerRollEUR)
	}

	known := cfg.Profile("die Fotobox")
	if known.CostPerRollEUR != 45 {
		t.Errorf("Known profile cost = %v, want 45", known.CostPerRollEUR)
	}
}

func TestSheetID_Resolution(t *testing.T) {
	t.Setenv("GOOGLE_SHEET_ID", "shared-id")
	t.Setenv("GOOGLE_SHEET_ID_DIEFOTOBOX", "fotobox-id")

	cfg := DefaultConfig()

	if id := SheetID(cfg.Profile("die Fotobox")); id != "fotobox-id" {
		t.Errorf("SheetID() = %s, want profile-specific id", id)
	}
	if id := SheetID(DefaultProfile()); id != "shared-id" {
		t.Errorf("SheetID() = %s, want shared fallback", id)
	}
}

func TestConfig_Location(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Location().String() != "Europe/Vienna" {
		t.Errorf("Location() = %s, want Europe/Vienna", cfg.Location())
	}

	cfg.Timezone = "Not/AZone"
	if cfg.Location().String() != "UTC" {
		t.Errorf("Location() fallback = %s, want UTC", cfg.Location())
	}
}
