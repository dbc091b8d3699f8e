package history

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order. The upstream sheet is written by a
// locale-dependent logger, so both ISO and day-first forms show up.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"2006-01-02",
	"02.01.2006",
}

// Normalize turns a raw table into a time-ordered, type-clean series.
// It never fails: an empty source, missing required columns or unparseable
// rows degrade to an empty (or shorter) series, with the condition recorded
// in the Result. Rows must have both a parseable timestamp and a parseable
// media count to survive; the sort is stable so equal timestamps keep their
// original relative order.
func Normalize(t Table, loc *time.Location) (Series, Result) {
	if loc == nil {
		loc = time.UTC
	}

	// Empty before schema: a log with no rows at all reads as "no data
	// yet" even when the header is absent too.
	if t.IsEmpty() {
		return nil, Result{Outcome: OutcomeNoRows}
	}

	if !t.HasColumns(ColumnTimestamp, ColumnMediaRemaining) {
		return nil, Result{Outcome: OutcomeBadSchema, RowsSeen: len(t.Rows)}
	}

	tsIdx := t.ColumnIndex(ColumnTimestamp)
	mediaIdx := t.ColumnIndex(ColumnMediaRemaining)
	statusIdx := t.ColumnIndex(ColumnStatus)

	series := make(Series, 0, len(t.Rows))
	dropped := 0

	for _, row := range t.Rows {
		ts, ok := parseTimestamp(cell(row, tsIdx), loc)
		if !ok {
			dropped++
			continue
		}

		media, ok := parseMedia(cell(row, mediaIdx))
		if !ok {
			dropped++
			continue
		}

		series = append(series, Observation{
			Timestamp:      ts,
			RawStatus:      cell(row, statusIdx),
			MediaRemaining: media,
		})
	}

	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})

	return series, Result{
		Outcome:     OutcomeOK,
		RowsSeen:    len(t.Rows),
		RowsDropped: dropped,
	}
}

// cell returns the trimmed cell at idx, or "" for short rows and idx < 0.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// parseMedia accepts integer counts, tolerating a decimal rendering such
// as "140.0" which some sheet exports produce for numeric cells.
func parseMedia(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}
