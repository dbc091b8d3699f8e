package tui

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"boothmon/internal/logging"
)

func TestUIStateManager_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	manager := NewUIStateManager(dir, logging.NewLogger(logging.LevelError))

	saved := &UIState{Printer: "Weinkellerei", EventMode: true}
	if err := manager.Save(saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := manager.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Printer != "Weinkellerei" {
		t.Errorf("Printer = %q, want %q", loaded.Printer, "Weinkellerei")
	}
	if !loaded.EventMode {
		t.Error("expected EventMode true")
	}
	if loaded.Updated.IsZero() {
		t.Error("expected Updated to be stamped on save")
	}
}

func TestUIStateManager_LoadNonExistent(t *testing.T) {
	manager := NewUIStateManager(t.TempDir(), logging.NewLogger(logging.LevelError))

	state, err := manager.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if state.Printer != "" || state.EventMode {
		t.Errorf("expected zero state, got %+v", state)
	}
}

func TestUIStateManager_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, UIStateFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	manager := NewUIStateManager(dir, logging.NewLogger(logging.LevelError))
	if _, err := manager.Load(); err == nil {
		t.Error("expected error for corrupt state file")
	}
}

func TestUIStateManager_SaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	manager := NewUIStateManager(dir, logging.NewLogger(logging.LevelError))

	if err := manager.Save(&UIState{Printer: "die Fotobox"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, UIStateFileName))
	if err != nil {
		t.Fatalf("state file not written: %v", err)
	}

	var state UIState
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatalf("state file not valid JSON: %v", err)
	}
	if state.Printer != "die Fotobox" {
		t.Errorf("Printer = %q, want %q", state.Printer, "die Fotobox")
	}
}

func TestUIStateManager_UpdatedAdvances(t *testing.T) {
	dir := t.TempDir()
	manager := NewUIStateManager(dir, logging.NewLogger(logging.LevelError))

	first := &UIState{Printer: "die Fotobox"}
	if err := manager.Save(first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	stamp := first.Updated

	time.Sleep(10 * time.Millisecond)
	second := &UIState{Printer: "die Fotobox"}
	if err := manager.Save(second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !second.Updated.After(stamp) {
		t.Errorf("Updated did not advance: %v -> %v", stamp, second.Updated)
	}
}
