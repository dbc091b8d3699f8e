package status

// Mode is the operator-facing operational state of a printer.
type Mode string

const (
	// ModeError indicates a hard device fault (jam, ribbon/paper end).
	ModeError Mode = "error"
	// ModeCoverOpen indicates the printer cover is open.
	ModeCoverOpen Mode = "cover_open"
	// ModeLowPaper indicates remaining media at or below the warning threshold.
	ModeLowPaper Mode = "low_paper"
	// ModeCooldown indicates the print head is cooling down.
	ModeCooldown Mode = "cooldown"
	// ModePrinting indicates an active print job.
	ModePrinting Mode = "printing"
	// ModeReady indicates the printer is idle and usable.
	ModeReady Mode = "ready"
	// ModeStale indicates the device stopped reporting within the
	// heartbeat window; it overrides whatever the last report said.
	ModeStale Mode = "stale"
)

// Severity orders derived states for the display layer.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the display name of a severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "normal"
	}
}

// Derived is the classifier output consumed by the display layer.
// StalenessMinutes is nil when the observation timestamp was unusable.
type Derived struct {
	Mode             Mode
	Display          string
	Severity         Severity
	Unrecognized     bool
	StalenessMinutes *float64
}
