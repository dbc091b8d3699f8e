package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment keys for secrets. Secrets never live in the YAML config;
// they come from the process environment or a local .env file.
const (
	EnvSheetID    = "GOOGLE_SHEET_ID"
	EnvNtfyURL    = "NTFY_URL"
	EnvNtfyTopic  = "DSRBOOTH_CONTROL_TOPIC"
	EnvLoginPIN   = "APP_LOGIN_PIN"
	EnvLogFile    = "BOOTHMON_LOG_FILE"
	EnvAqaraID    = "AQARA_CLIENT_ID"
	EnvAqaraKey   = "AQARA_CLIENT_SECRET"
	EnvAqaraUser  = "AQARA_USERNAME"
	EnvAqaraPass  = "AQARA_PASSWORD"
	EnvAqaraPlug  = "AQARA_PLUG_DEVICE_ID"
)

// LoadEnv loads a .env file into the process environment if one exists.
// Missing files are fine; existing variables are never overwritten.
func LoadEnv() {
	_ = godotenv.Load()
}

// SheetID resolves the spreadsheet ID for a printer profile: the
// profile-specific key first, then the shared fallback.
func SheetID(profile PrinterProfile) string {
	if profile.SheetEnvKey != "" {
		if id := os.Getenv(profile.SheetEnvKey); id != "" {
			return id
		}
	}
	return os.Getenv(EnvSheetID)
}

// NtfyBaseURL resolves the push relay base URL: environment first, then
// the configured value.
func NtfyBaseURL(cfg Config) string {
	if url := os.Getenv(EnvNtfyURL); url != "" {
		return url
	}
	return cfg.Ntfy.BaseURL
}

// NtfyTopic returns the lock/unlock control topic, empty when unset.
func NtfyTopic() string {
	return os.Getenv(EnvNtfyTopic)
}

// LoginPIN returns the admin PIN from the environment, empty when unset.
func LoginPIN() string {
	return os.Getenv(EnvLoginPIN)
}
