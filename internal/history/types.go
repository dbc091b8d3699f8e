package history

import "time"

// Column names the upstream log is required to carry. Extra columns are
// ignored; the Status column is free vendor text and may be empty.
const (
	ColumnTimestamp      = "Timestamp"
	ColumnStatus         = "Status"
	ColumnMediaRemaining = "MediaRemaining"
)

// Table is a row-oriented payload as fetched from the sheet tab:
// a header of column names plus positional rows of cell text.
type Table struct {
	Columns []string
	Rows    [][]string
}

// IsEmpty reports whether the table carries no data rows.
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// ColumnIndex returns the position of a named column, or -1 if absent.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumns reports whether all named columns are present in the header.
func (t Table) HasColumns(names ...string) bool {
	for _, n := range names {
		if t.ColumnIndex(n) < 0 {
			return false
		}
	}
	return true
}

// Observation is one timestamped printer reading.
type Observation struct {
	Timestamp      time.Time
	RawStatus      string
	MediaRemaining int
}

// Series is a type-validated sequence of observations sorted ascending
// by timestamp. Media counts are not monotonic: refills, resets and
// sensor noise are expected and left in place.
type Series []Observation

// Latest returns the chronologically last observation.
func (s Series) Latest() (Observation, bool) {
	if len(s) == 0 {
		return Observation{}, false
	}
	return s[len(s)-1], true
}

// Outcome classifies the result of normalizing a table. The no-rows and
// bad-schema cases are deliberately distinct so the display layer can show
// a configuration hint instead of "waiting for data".
type Outcome string

const (
	// OutcomeOK means the table had the required schema; the series may
	// still be empty when every row failed parsing.
	OutcomeOK Outcome = "ok"
	// OutcomeNoRows means the upstream log exists but has no data rows yet.
	OutcomeNoRows Outcome = "no_rows"
	// OutcomeBadSchema means a required column is missing.
	OutcomeBadSchema Outcome = "bad_schema"
)

// Result carries the normalization outcome plus row accounting. Dropped
// rows are only observable as an aggregate count.
type Result struct {
	Outcome     Outcome
	RowsSeen    int
	RowsDropped int
}
