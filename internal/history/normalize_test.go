package history

import (
	"testing"
	"time"
)

var vienna = mustLoadLocation("Europe/Vienna")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func TestNormalize_EmptyTable(t *testing.T) {
	series, res := Normalize(Table{}, vienna)

	if len(series) != 0 {
		t.Errorf("Expected empty series, got %d observations", len(series))
	}
	if res.Outcome != OutcomeNoRows {
		t.Errorf("Outcome = %s, want %s", res.Outcome, OutcomeNoRows)
	}
}

func TestNormalize_MissingColumns(t *testing.T) {
	table := Table{
		Columns: []string{"Timestamp", "Status"},
		Rows:    [][]string{{"2026-05-01 10:00:00", "Idle"}},
	}

	series, res := Normalize(table, vienna)

	if len(series) != 0 {
		t.Errorf("Expected empty series, got %d observations", len(series))
	}
	if res.Outcome != OutcomeBadSchema {
		t.Errorf("Outcome = %s, want %s", res.Outcome, OutcomeBadSchema)
	}
}

func TestNormalize_DropsUnparseableRows(t *testing.T) {
	table := Table{
		Columns: []string{"Timestamp", "Status", "MediaRemaining"},
		Rows: [][]string{
			{"2026-05-01 10:00:00", "Idle", "400"},
			{"not a date", "Idle", "399"},
			{"2026-05-01 10:01:00", "Printing", "n/a"},
			{"2026-05-01 10:02:00", "Printing", "398"},
		},
	}

	series, res := Normalize(table, vienna)

	if len(series) != 2 {
		t.Fatalf("Expected 2 observations, got %d", len(series))
	}
	if res.Outcome != OutcomeOK {
		t.Errorf("Outcome = %s, want %s", res.Outcome, OutcomeOK)
	}
	if res.RowsSeen != 4 {
		t.Errorf("RowsSeen = %d, want 4", res.RowsSeen)
	}
	if res.RowsDropped != 2 {
		t.Errorf("RowsDropped = %d, want 2", res.RowsDropped)
	}
	if series[0].MediaRemaining != 400 || series[1].MediaRemaining != 398 {
		t.Errorf("Unexpected media counts: %d, %d", series[0].MediaRemaining, series[1].MediaRemaining)
	}
}

func TestNormalize_AllRowsFail(t *testing.T) {
	table := Table{
		Columns: []string{"Timestamp", "Status", "MediaRemaining"},
		Rows: [][]string{
			{"garbage", "Idle", "400"},
			{"2026-05-01 10:00:00", "Idle", "garbage"},
		},
	}

	series, res := Normalize(table, vienna)

	if len(series) != 0 {
		t.Errorf("Expected empty series, got %d observations", len(series))
	}
	if res.Outcome != OutcomeOK {
		t.Errorf("Outcome = %s, want %s (all-rows-failed is not a schema error)", res.Outcome, OutcomeOK)
	}
	if res.RowsDropped != 2 {
		t.Errorf("RowsDropped = %d, want 2", res.RowsDropped)
	}
}

func TestNormalize_SortsAscending(t *testing.T) {
	table := Table{
		Columns: []string{"Timestamp", "Status", "MediaRemaining"},
		Rows: [][]string{
			{"2026-05-01 10:05:00", "Printing", "390"},
			{"2026-05-01 10:00:00", "Idle", "400"},
			{"2026-05-01 10:02:00", "Printing", "395"},
		},
	}

	series, _ := Normalize(table, vienna)

	if len(series) != 3 {
		t.Fatalf("Expected 3 observations, got %d", len(series))
	}
	for i := 1; i < len(series); i++ {
		if series[i].Timestamp.Before(series[i-1].Timestamp) {
			t.Errorf("Series not sorted at index %d", i)
		}
	}
	if series[0].MediaRemaining != 400 {
		t.Errorf("First observation MediaRemaining = %d, want 400", series[0].MediaRemaining)
	}
}

func TestNormalize_StableOnEqualTimestamps(t *testing.T) {
	table := Table{
		Columns: []string{"Timestamp", "Status", "MediaRemaining"},
		Rows: [][]string{
			{"2026-05-01 10:00:00", "first", "400"},
			{"2026-05-01 10:00:00", "second", "399"},
			{"2026-05-01 10:00:00", "third", "398"},
		},
	}

	series, _ := Normalize(table, vienna)

	if len(series) != 3 {
		t.Fatalf("Expected 3 observations, got %d", len(series))
	}
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if series[i].RawStatus != w {
			t.Errorf("series[%d].RawStatus = %s, want %s", i, series[i].RawStatus, w)
		}
	}
}

func TestNormalize_TimestampFormats(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2026-05-01 10:00:00", time.Date(2026, 5, 1, 10, 0, 0, 0, vienna)},
		{"2026-05-01T10:00:00", time.Date(2026, 5, 1, 10, 0, 0, 0, vienna)},
		{"01.05.2026 10:00:00", time.Date(2026, 5, 1, 10, 0, 0, 0, vienna)},
		{"01.05.2026 10:00", time.Date(2026, 5, 1, 10, 0, 0, 0, vienna)},
		{"2026-05-01", time.Date(2026, 5, 1, 0, 0, 0, 0, vienna)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			table := Table{
				Columns: []string{"Timestamp", "MediaRemaining"},
				Rows:    [][]string{{tt.raw, "10"}},
			}
			series, _ := Normalize(table, vienna)
			if len(series) != 1 {
				t.Fatalf("Expected row to parse, got %d observations", len(series))
			}
			if !series[0].Timestamp.Equal(tt.want) {
				t.Errorf("Timestamp = %v, want %v", series[0].Timestamp, tt.want)
			}
		})
	}
}

func TestNormalize_MediaDecimalRendering(t *testing.T) {
	table := Table{
		Columns: []string{"Timestamp", "MediaRemaining"},
		Rows:    [][]string{{"2026-05-01 10:00:00", "140.0"}},
	}

	series, _ := Normalize(table, vienna)

	if len(series) != 1 {
		t.Fatalf("Expected 1 observation, got %d", len(series))
	}
	if series[0].MediaRemaining != 140 {
		t.Errorf("MediaRemaining = %d, want 140", series[0].MediaRemaining)
	}
}

func TestSeries_Latest(t *testing.T) {
	var empty Series
	if _, ok := empty.Latest(); ok {
		t.Error("Latest() on empty series should report false")
	}

	s := Series{
		{Timestamp: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC), MediaRemaining: 400},
		{Timestamp: time.Date(2026, 5, 1, 10, 10, 0, 0, time.UTC), MediaRemaining: 350},
	}
	latest, ok := s.Latest()
	if !ok {
		t.Fatal("Latest() should report true")
	}
	if latest.MediaRemaining != 350 {
		t.Errorf("Latest().MediaRemaining = %d, want 350", latest.MediaRemaining)
	}
}
