package status

import (
	"fmt"
	"strings"
	"time"
)

// DefaultHeartbeatWarn is how old the newest observation may be before the
// printer is considered stale.
const DefaultHeartbeatWarn = 60 * time.Minute

// LocalTimezone is the zone naive sheet timestamps are assumed to be in.
const LocalTimezone = "Europe/Vienna"

// Keyword vocabularies of the DNP-style printer firmware. Matching is
// containment on the lower-cased, trimmed status text, evaluated in the
// order the rules appear in Evaluate; the first hit wins.
var (
	hardErrorKeywords = []string{
		"paper end",
		"ribbon end",
		"paper jam",
		"ribbon error",
		"paper definition error",
		"data error",
	}
	coverOpenKeywords = []string{"cover open"}
	cooldownKeywords  = []string{"head cooling down"}
	printingKeywords  = []string{"printing", "processing", "drucken"}
	idleKeywords      = []string{"idle", "standby mode"}
)

// Classifier derives an operator-facing state from a raw printer report.
// It is a pure function of its inputs plus the injected clock, so any
// number of sessions may share one instance.
type Classifier struct {
	WarningThreshold int
	HeartbeatWarn    time.Duration
	Location         *time.Location
	Now              func() time.Time
}

// New creates a classifier for the given low-paper threshold, using the
// fixed local zone and wall clock.
func New(warningThreshold int) *Classifier {
	loc, err := time.LoadLocation(LocalTimezone)
	if err != nil {
		loc = time.UTC
	}
	return &Classifier{
		WarningThreshold: warningThreshold,
		HeartbeatWarn:    DefaultHeartbeatWarn,
		Location:         loc,
		Now:              time.Now,
	}
}

// Evaluate classifies the newest observation. mediaRemaining must already
// be scaled to printable pages. A zero ts means the timestamp could not be
// parsed; staleness then stays indeterminate and the content-derived state
// stands.
func (c *Classifier) Evaluate(rawStatus string, mediaRemaining int, ts time.Time) Derived {
	d := c.classifyContent(rawStatus, mediaRemaining)

	// Staleness override runs last and unconditionally: a device that
	// stopped reporting must not keep showing its last-known-good state.
	if ts.IsZero() {
		return d
	}

	minutes := c.now().Sub(ts).Minutes()
	d.StalenessMinutes = &minutes

	if minutes > c.heartbeatWarn().Minutes() {
		d.Mode = ModeStale
		d.Display = fmt.Sprintf("⚠️ Keine aktuellen Daten (seit %d Min)", int(minutes))
		d.Severity = SeverityWarning
		d.Unrecognized = false
	}

	return d
}

func (c *Classifier) classifyContent(rawStatus string, mediaRemaining int) Derived {
	text := strings.ToLower(strings.TrimSpace(rawStatus))

	switch {
	case containsAny(text, hardErrorKeywords):
		return Derived{
			Mode:     ModeError,
			Display:  fmt.Sprintf("🔴 STÖRUNG: %s", rawStatus),
			Severity: SeverityError,
		}

	case containsAny(text, coverOpenKeywords):
		return Derived{
			Mode:     ModeCoverOpen,
			Display:  "⚠️ Deckel offen!",
			Severity: SeverityWarning,
		}

	// Independent of the status text; fires even for an empty or benign
	// report, but only after hard errors and cover-open are ruled out.
	case mediaRemaining <= c.WarningThreshold:
		return Derived{
			Mode:     ModeLowPaper,
			Display:  fmt.Sprintf("⚠️ Papier fast leer – %d Bilder übrig", mediaRemaining),
			Severity: SeverityWarning,
		}

	case containsAny(text, cooldownKeywords):
		return Derived{
			Mode:     ModeCooldown,
			Display:  "🟡 Kopf kühlt ab",
			Severity: SeverityWarning,
		}

	case containsAny(text, printingKeywords):
		return Derived{
			Mode:     ModePrinting,
			Display:  "🟢 Druckt gerade",
			Severity: SeverityNormal,
		}

	case containsAny(text, idleKeywords) || text == "":
		return Derived{
			Mode:     ModeReady,
			Display:  "✅ Bereit",
			Severity: SeverityNormal,
		}

	default:
		// Unknown firmware vocabulary reads as ready, but the raw text is
		// echoed and flagged so new error strings stay visible to the
		// operator instead of vanishing behind a green badge.
		return Derived{
			Mode:         ModeReady,
			Display:      fmt.Sprintf("✅ Bereit (%s)", rawStatus),
			Severity:     SeverityNormal,
			Unrecognized: true,
		}
	}
}

// containsAny requires non-empty haystack: an empty status never matches
// a keyword rule and falls through to the threshold and ready rules.
func containsAny(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func (c *Classifier) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Classifier) heartbeatWarn() time.Duration {
	if c.HeartbeatWarn > 0 {
		return c.HeartbeatWarn
	}
	return DefaultHeartbeatWarn
}
