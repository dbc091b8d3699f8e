package monitor

import (
	"time"

	"boothmon/internal/history"
	"boothmon/internal/stats"
	"boothmon/internal/status"
)

// Snapshot is one complete poll result for one printer. The display layer
// overwrites its presentation from it wholesale each cycle; nothing is
// diffed or carried over.
type Snapshot struct {
	Printer   string
	FetchedAt time.Time

	// Loader outcome: distinguishes bad schema and no rows from data.
	Outcome     history.Outcome
	RowsSeen    int
	RowsDropped int

	// Latest observation, scaled to printable pages.
	HasLatest      bool
	Latest         history.Observation
	MediaRemaining int

	Status status.Derived
	Stats  stats.Consumption

	HasCost  bool
	CostUsed float64
}

// HasData reports whether the snapshot carries at least one usable
// observation.
func (s Snapshot) HasData() bool {
	return s.HasLatest
}

// PaperRatio is the remaining-paper fraction for the gauge, clamped to
// [0, 1]. A hard error with an empty tray reads as zero.
func (s Snapshot) PaperRatio(maxPrints int) float64 {
	if maxPrints <= 0 {
		return 0
	}
	if s.Status.Mode == status.ModeError && s.MediaRemaining == 0 {
		return 0
	}
	ratio := float64(s.MediaRemaining) / float64(maxPrints)
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}
