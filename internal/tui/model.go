package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"boothmon/internal/config"
	"boothmon/internal/logging"
	"boothmon/internal/monitor"
	"boothmon/internal/sheet"
	"boothmon/internal/status"
)

// maxLogLines bounds the dashboard event log panel.
const maxLogLines = 8

// snapshotMsg carries a completed poll result into the update loop.
type snapshotMsg monitor.Snapshot

// tickMsg fires when the next poll is due.
type tickMsg time.Time

// SourceFactory builds the history source for a printer profile, so tests
// can substitute a stub for the sheet client.
type SourceFactory func(profile config.PrinterProfile) sheet.Source

// Options wires the dashboard's collaborators.
type Options struct {
	Config       config.Config
	Logger       *logging.Logger
	Sources      SourceFactory
	Booth        Controller
	Plug         PlugController
	PlugDeviceID string
	VerifyPIN    func(string) bool
	StateDir     string
}

// Model is the dashboard application state.
type Model struct {
	cfg    config.Config
	logger *logging.Logger

	screen    Screen
	printers  []string
	selection int

	printer string
	profile config.PrinterProfile
	agent   *monitor.Agent
	sources SourceFactory

	booth        Controller
	plug         PlugController
	plugDeviceID string
	verifyPIN    func(string) bool

	snapshot  *monitor.Snapshot
	eventMode bool

	adminUnlocked bool
	pinInput      string

	message  string
	eventLog []string

	stateManager *UIStateManager
	quitting     bool
}

// NewModel creates the dashboard, restoring the previously watched
// printer when the persisted UI state still names a configured one.
func NewModel(opts Options) Model {
	m := Model{
		cfg:          opts.Config,
		logger:       opts.Logger,
		screen:       ScreenDashboard,
		printers:     opts.Config.PrinterNames(),
		sources:      opts.Sources,
		booth:        opts.Booth,
		plug:         opts.Plug,
		plugDeviceID: opts.PlugDeviceID,
		verifyPIN:    opts.VerifyPIN,
		stateManager: NewUIStateManager(opts.StateDir, opts.Logger),
	}

	m.printer = opts.Config.DefaultPrinter
	if state, err := m.stateManager.Load(); err == nil {
		if state.Printer != "" && m.hasPrinter(state.Printer) {
			m.printer = state.Printer
		}
		m.eventMode = state.EventMode
	}
	if m.printer == "" && len(m.printers) > 0 {
		m.printer = m.printers[0]
	}

	m.rebuildAgent()
	m.appendLog("Dashboard gestartet.")

	return m
}

// Init starts the first poll immediately.
func (m Model) Init() tea.Cmd {
	return m.pollCmd()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		snap := monitor.Snapshot(msg)
		m.snapshot = &snap
		m.appendLog(fmt.Sprintf("Daten geladen: %d Zeilen.", snap.RowsSeen))
		return m, m.tickCmd()

	case tickMsg:
		return m, m.pollCmd()

	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}

	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenPrinters:
		return m.handlePrintersKey(key)
	case ScreenAdmin:
		return m.handleAdminKey(key)
	case ScreenHelp:
		if key == "esc" || key == "q" {
			m.screen = ScreenDashboard
			return m, nil
		}
		return m, nil
	default:
		return m.handleDashboardKey(key)
	}
}

func (m Model) handleDashboardKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "p":
		m.selection = m.printerIndex(m.printer)
		if m.selection < 0 {
			m.selection = 0
		}
		m.screen = ScreenPrinters
		return m, nil

	case "e":
		m.eventMode = !m.eventMode
		m.appendLog(fmt.Sprintf("Event-Ansicht: %v", m.eventMode))
		m.saveState()
		return m, nil

	case "a":
		if m.profile.HasAdmin {
			m.pinInput = ""
			m.message = ""
			m.screen = ScreenAdmin
		}
		return m, nil

	case "l", "u":
		// shortcut for an already unlocked admin session
		if m.adminUnlocked && m.profile.HasDSR {
			return m.boothAction(key == "l"), nil
		}
		return m, nil

	case "?":
		m.screen = ScreenHelp
		return m, nil
	}

	return m, nil
}

func (m Model) handlePrintersKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc":
		m.screen = ScreenDashboard
		return m, nil

	case "up", "k":
		if m.selection > 0 {
			m.selection--
		}
		return m, nil

	case "down", "j":
		if m.selection < len(m.printers)-1 {
			m.selection++
		}
		return m, nil

	case "enter", " ":
		if m.selection >= 0 && m.selection < len(m.printers) {
			return m.switchPrinter(m.printers[m.selection])
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleAdminKey(key string) (tea.Model, tea.Cmd) {
	if key == "esc" {
		m.screen = ScreenDashboard
		m.pinInput = ""
		return m, nil
	}

	if !m.adminUnlocked {
		return m.handlePINEntry(key)
	}

	switch key {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "l":
		if m.profile.HasDSR {
			return m.boothAction(true), nil
		}

	case "u":
		if m.profile.HasDSR {
			return m.boothAction(false), nil
		}

	case "o":
		if m.profile.HasAqara {
			return m.plugAction(true), nil
		}

	case "f":
		if m.profile.HasAqara {
			return m.plugAction(false), nil
		}
	}

	return m, nil
}

func (m Model) handlePINEntry(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter":
		if m.verifyPIN != nil && m.verifyPIN(m.pinInput) {
			m.adminUnlocked = true
			m.message = ""
			m.appendLog("Admin freigeschaltet.")
		} else {
			m.message = "PIN falsch."
			m.logger.Warn("tui.pin_rejected", "Admin PIN rejected", nil)
		}
		m.pinInput = ""
		return m, nil

	case "backspace":
		if len(m.pinInput) > 0 {
			m.pinInput = m.pinInput[:len(m.pinInput)-1]
		}
		return m, nil
	}

	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' && len(m.pinInput) < 8 {
		m.pinInput += key
	}
	return m, nil
}

// boothAction sends the lock or unlock signal and records the outcome.
func (m Model) boothAction(lock bool) Model {
	verb := "Entsperre"
	if lock {
		verb = "Sperre"
	}
	m.appendLog(verb + " Fotobox…")

	if m.booth == nil {
		m.message = "ntfy nicht konfiguriert."
		m.appendLog(m.message)
		return m
	}

	ok := false
	if lock {
		ok = m.booth.Lock()
	} else {
		ok = m.booth.Unlock()
	}

	if ok {
		if lock {
			m.message = "Fotobox wurde gesperrt."
		} else {
			m.message = "Fotobox wurde entsperrt."
		}
	} else {
		m.message = "Fehler beim Senden (Details im Log)."
	}
	m.appendLog(m.message)
	return m
}

func (m Model) plugAction(on bool) Model {
	if m.plug == nil || m.plugDeviceID == "" {
		m.message = "Steckdose nicht konfiguriert."
		m.appendLog(m.message)
		return m
	}

	var err error
	if on {
		err = m.plug.SwitchOn(m.plugDeviceID)
	} else {
		err = m.plug.SwitchOff(m.plugDeviceID)
	}

	if err != nil {
		m.message = "Fehler beim Schalten der Steckdose."
		m.logger.Error("tui.plug_failed", "Plug switch failed", map[string]interface{}{
			"error": err.Error(),
		})
	} else if on {
		m.message = "Steckdose eingeschaltet."
	} else {
		m.message = "Steckdose ausgeschaltet."
	}
	m.appendLog(m.message)
	return m
}

func (m Model) switchPrinter(name string) (tea.Model, tea.Cmd) {
	m.printer = name
	m.snapshot = nil
	m.screen = ScreenDashboard
	m.rebuildAgent()
	m.appendLog("Drucker gewechselt auf: " + name)
	m.saveState()
	// refresh immediately instead of waiting out the old tick
	return m, m.pollCmd()
}

// rebuildAgent wires classifier, profile and source for the current
// printer. Must be called whenever the printer changes.
func (m *Model) rebuildAgent() {
	m.profile = m.cfg.Profile(m.printer)

	classifier := status.New(m.profile.WarningThreshold)
	classifier.HeartbeatWarn = m.cfg.HeartbeatWarn()
	classifier.Location = m.cfg.Location()

	var source sheet.Source
	if m.sources != nil {
		source = m.sources(m.profile)
	}

	m.agent = monitor.New(m.printer, m.profile, source, classifier,
		m.cfg.WindowMinutes, m.cfg.PollInterval(), m.logger)
}

func (m Model) pollCmd() tea.Cmd {
	agent := m.agent
	return func() tea.Msg {
		return snapshotMsg(agent.Poll())
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.agent.Interval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) appendLog(msg string) {
	line := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), msg)
	m.eventLog = append([]string{line}, m.eventLog...)
	if len(m.eventLog) > maxLogLines {
		m.eventLog = m.eventLog[:maxLogLines]
	}
}

func (m Model) saveState() {
	if err := m.stateManager.Save(&UIState{Printer: m.printer, EventMode: m.eventMode}); err != nil {
		m.logger.Warn("tui.state.save_failed", "Failed to persist UI state", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (m Model) hasPrinter(name string) bool {
	return m.printerIndex(name) >= 0
}

func (m Model) printerIndex(name string) int {
	for i, p := range m.printers {
		if p == name {
			return i
		}
	}
	return -1
}
