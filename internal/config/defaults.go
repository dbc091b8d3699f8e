package config

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		PollIntervalSeconds:  10,
		WindowMinutes:        30,
		HeartbeatWarnMinutes: 60,
		Timezone:             "Europe/Vienna",
		SheetTab:             "DruckerStatus",
		DefaultPrinter:       "die Fotobox",
		Ntfy: NtfyConfig{
			BaseURL: "https://ntfy.sh",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Printers: map[string]PrinterProfile{
			"die Fotobox": {
				Key:              "standard",
				MediaFactor:      1,
				WarningThreshold: 20,
				MaxPrints:        400,
				CostPerRollEUR:   45,
				HasAdmin:         true,
				HasAqara:         true,
				HasDSR:           true,
				SheetEnvKey:      "GOOGLE_SHEET_ID_DIEFOTOBOX",
			},
			"Weinkellerei": {
				Key:              "Weinkellerei",
				MediaFactor:      2,
				WarningThreshold: 20,
				MaxPrints:        400,
				CostPerRollEUR:   60,
				HasAdmin:         true,
				SheetEnvKey:      "GOOGLE_SHEET_ID_WEINKELLEREI",
			},
		},
	}
}

// DefaultProfile is the permissive fallback when a printer has no
// configured profile.
func DefaultProfile() PrinterProfile {
	return PrinterProfile{
		Key:              "standard",
		MediaFactor:      1,
		WarningThreshold: 20,
		MaxPrints:        400,
	}
}

// Profile returns the profile for a printer display name, falling back to
// DefaultProfile when the name is not configured.
func (c Config) Profile(name string) PrinterProfile {
	if p, ok := c.Printers[name]; ok {
		return p
	}
	return DefaultProfile()
}

// PrinterNames returns the configured printer display names in stable order.
func (c Config) PrinterNames() []string {
	names := make([]string, 0, len(c.Printers))
	for name := range c.Printers {
		names = append(names, name)
	}
	sortStrings(names)
	return names
}
