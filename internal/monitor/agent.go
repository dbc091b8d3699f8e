// Package monitor runs the poll pipeline: fetch the event log, normalize
// it, classify the newest observation and derive consumption stats. One
// agent serves one printer; the stages themselves are pure, I/O happens
// only at the source fetch.
package monitor

import (
	"context"
	"time"

	"boothmon/internal/config"
	"boothmon/internal/history"
	"boothmon/internal/logging"
	"boothmon/internal/sheet"
	"boothmon/internal/stats"
	"boothmon/internal/status"
)

// Agent polls one printer's event log on a fixed cadence.
type Agent struct {
	printer    string
	profile    config.PrinterProfile
	source     sheet.Source
	classifier *status.Classifier
	windowMin  int
	interval   time.Duration
	logger     *logging.Logger

	// status strings already reported as unknown this session
	seenUnrecognized map[string]bool
}

// New creates an agent for one printer.
func New(printer string, profile config.PrinterProfile, source sheet.Source, classifier *status.Classifier, windowMin int, interval time.Duration, logger *logging.Logger) *Agent {
	if windowMin <= 0 {
		windowMin = stats.DefaultWindowMinutes
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Agent{
		printer:          printer,
		profile:          profile,
		source:           source,
		classifier:       classifier,
		windowMin:        windowMin,
		interval:         interval,
		logger:           logger,
		seenUnrecognized: make(map[string]bool),
	}
}

// Interval returns the poll cadence.
func (a *Agent) Interval() time.Duration {
	return a.interval
}

// Printer returns the printer display name this agent serves.
func (a *Agent) Printer() string {
	return a.printer
}

// Profile returns the printer profile this agent serves.
func (a *Agent) Profile() config.PrinterProfile {
	return a.profile
}

// Poll runs one full pipeline cycle. It never fails: a broken fetch
// degrades to an empty table and the snapshot records what was usable.
func (a *Agent) Poll() Snapshot {
	table, err := a.source.Fetch()
	if err != nil {
		// Loader boundary: the rest of the pipeline never sees fetch
		// errors, only an empty table.
		a.logger.Error("sheet.fetch_failed", "Failed to load event log", map[string]interface{}{
			"printer": a.printer,
			"error":   err.Error(),
		})
		table = history.Table{}
	}

	series, res := history.Normalize(table, a.classifier.Location)

	// The classifier only needs Timestamp and MediaRemaining, but the
	// operator-facing schema contract includes the Status column.
	if res.Outcome == history.OutcomeOK && !table.HasColumns(history.ColumnStatus) {
		res.Outcome = history.OutcomeBadSchema
		series = nil
	}

	snap := Snapshot{
		Printer:     a.printer,
		FetchedAt:   time.Now(),
		Outcome:     res.Outcome,
		RowsSeen:    res.RowsSeen,
		RowsDropped: res.RowsDropped,
	}

	if res.RowsDropped > 0 {
		a.logger.Debug("history.rows_dropped", "Dropped unparseable rows", map[string]interface{}{
			"printer": a.printer,
			"dropped": res.RowsDropped,
			"seen":    res.RowsSeen,
		})
	}

	latest, ok := series.Latest()
	if !ok {
		return snap
	}

	snap.HasLatest = true
	snap.Latest = latest
	snap.MediaRemaining = latest.MediaRemaining * a.profile.MediaFactor

	snap.Status = a.classifier.Evaluate(latest.RawStatus, snap.MediaRemaining, latest.Timestamp)
	if snap.Status.Unrecognized && !a.seenUnrecognized[latest.RawStatus] {
		a.seenUnrecognized[latest.RawStatus] = true
		a.logger.Warn("status.unrecognized", "Unknown status vocabulary treated as ready", map[string]interface{}{
			"printer": a.printer,
			"raw":     latest.RawStatus,
		})
	}

	snap.Stats = stats.Compute(series, a.windowMin, a.profile.MediaFactor)
	snap.CostUsed, snap.HasCost = stats.CostEstimate(snap.Stats.PrintsTotal, a.profile.CostPerRollEUR, a.profile.MaxPrints)

	a.logger.Debug("poll.completed", "Poll cycle finished", map[string]interface{}{
		"printer": a.printer,
		"mode":    string(snap.Status.Mode),
		"rows":    res.RowsSeen,
	})

	return snap
}

// Run polls until the context is cancelled, delivering each snapshot to
// out. A cycle completes (or fails) before the next tick is waited on;
// there is no overlap.
func (a *Agent) Run(ctx context.Context, out chan<- Snapshot) {
	a.logger.Info("monitor.started", "Poll loop started", map[string]interface{}{
		"printer":  a.printer,
		"interval": a.interval.String(),
	})

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.deliver(out, a.Poll())

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("monitor.stopped", "Poll loop stopped", map[string]interface{}{
				"printer": a.printer,
			})
			return
		case <-ticker.C:
			a.deliver(out, a.Poll())
		}
	}
}

// deliver drops the snapshot when the consumer lags; the next cycle
// recomputes everything from scratch anyway.
func (a *Agent) deliver(out chan<- Snapshot, snap Snapshot) {
	select {
	case out <- snap:
	default:
	}
}
