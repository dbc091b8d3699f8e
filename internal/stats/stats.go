// Package stats derives consumption and throughput figures from a
// normalized observation series. Everything here is a pure function of the
// series snapshot, so an incremental implementation could replace it
// without changing callers.
package stats

import (
	"time"

	"boothmon/internal/history"
)

// DefaultWindowMinutes is the trailing window for the short-term rate.
const DefaultWindowMinutes = 30

// Consumption holds print usage figures over the full series and the
// trailing window. Throughputs are nil when no meaningful rate exists.
type Consumption struct {
	PrintsTotal       int
	DurationMinutes   float64
	ThroughputOverall *float64
	ThroughputWindow  *float64
}

// Compute derives consumption stats from a series. Fewer than two
// observations cannot establish a rate, so the zero value is returned.
// mediaFactor scales raw media units to printable pages.
func Compute(series history.Series, windowMinutes int, mediaFactor int) Consumption {
	var c Consumption
	if len(series) < 2 {
		return c
	}
	if mediaFactor < 1 {
		mediaFactor = 1
	}
	if windowMinutes <= 0 {
		windowMinutes = DefaultWindowMinutes
	}

	first := series[0]
	last := series[len(series)-1]

	c.PrintsTotal = printsBetween(first, last, mediaFactor)
	c.DurationMinutes = last.Timestamp.Sub(first.Timestamp).Minutes()
	c.ThroughputOverall = rate(c.PrintsTotal, c.DurationMinutes)

	// Trailing window: the suffix within windowMinutes of the last
	// observation, never the wall clock.
	cutoff := last.Timestamp.Add(-time.Duration(windowMinutes) * time.Minute)
	window := series
	for i, obs := range series {
		if !obs.Timestamp.Before(cutoff) {
			window = series[i:]
			break
		}
	}
	if len(window) >= 2 {
		prints := printsBetween(window[0], window[len(window)-1], mediaFactor)
		minutes := window[len(window)-1].Timestamp.Sub(window[0].Timestamp).Minutes()
		c.ThroughputWindow = rate(prints, minutes)
	}

	return c
}

// printsBetween is the consumed-page delta between two observations,
// clamped at zero: a refill or counter reset raises the remaining count
// and must never read as negative consumption.
func printsBetween(first, last history.Observation, mediaFactor int) int {
	prints := (first.MediaRemaining - last.MediaRemaining) * mediaFactor
	if prints < 0 {
		return 0
	}
	return prints
}

// rate returns prints/minute, or nil unless both inputs are strictly
// positive (no division by zero, no rate when nothing was consumed).
func rate(prints int, minutes float64) *float64 {
	if prints <= 0 || minutes <= 0 {
		return nil
	}
	r := float64(prints) / minutes
	return &r
}

// CostEstimate converts consumed prints to money using the configured
// roll price. The second return is false when pricing is not configured.
func CostEstimate(prints int, costPerRoll float64, maxPrints int) (float64, bool) {
	if costPerRoll <= 0 || maxPrints <= 0 {
		return 0, false
	}
	return float64(prints) * (costPerRoll / float64(maxPrints)), true
}
