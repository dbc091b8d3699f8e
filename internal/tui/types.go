package tui

import "time"

// Screen represents different TUI screens
type Screen string

const (
	// ScreenDashboard is the live printer status view
	ScreenDashboard Screen = "dashboard"
	// ScreenPrinters is the printer selection list
	ScreenPrinters Screen = "printers"
	// ScreenAdmin gates lock/unlock and power actions behind the PIN
	ScreenAdmin Screen = "admin"
	// ScreenHelp shows the key bindings
	ScreenHelp Screen = "help"
)

// UIState is the persisted slice of UI state: which printer the operator
// was watching and whether the reduced event view was active.
type UIState struct {
	Printer   string    `json:"printer"`
	EventMode bool      `json:"event_mode"`
	Updated   time.Time `json:"updated"`
}

// Controller sends the opaque lock/unlock signal to the booth.
type Controller interface {
	Lock() bool
	Unlock() bool
}

// PlugController switches the printer's smart plug.
type PlugController interface {
	SwitchOn(deviceID string) error
	SwitchOff(deviceID string) error
}
