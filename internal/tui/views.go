package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"boothmon/internal/history"
	"boothmon/internal/monitor"
	"boothmon/internal/stats"
	"boothmon/internal/status"
)

// gaugeWidth is the character width of the paper level bar.
const gaugeWidth = 30

// View renders the current screen
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case ScreenPrinters:
		return m.renderPrinters()
	case ScreenAdmin:
		return m.renderAdmin()
	case ScreenHelp:
		return m.renderHelp()
	default:
		return m.renderDashboard()
	}
}

// renderDashboard renders the main status screen for the watched printer
func (m Model) renderDashboard() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7ff")).MarginBottom(1)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#87d7af"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafff")).MarginTop(1)

	b.WriteString(titleStyle.Render("Druckerstatus — " + m.printer))
	b.WriteString("\n\n")

	snap := m.snapshot
	if snap == nil {
		b.WriteString(dimStyle.Render("Lade Daten…"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderStatusBanner(snap))
		b.WriteString("\n\n")

		if snap.HasData() {
			b.WriteString(labelStyle.Render("Papier: "))
			b.WriteString(valueStyle.Render(fmt.Sprintf("%d Bilder übrig", snap.MediaRemaining)))
			b.WriteString("\n")
			b.WriteString(m.renderPaperGauge(snap.PaperRatio(m.profile.MaxPrints)))
			b.WriteString("\n\n")

			b.WriteString(labelStyle.Render("Letztes Signal: "))
			b.WriteString(valueStyle.Render(snap.Latest.Timestamp.Format("02.01.2006 15:04:05")))
			if snap.Status.StalenessMinutes != nil {
				b.WriteString(dimStyle.Render(fmt.Sprintf("  (vor %.0f Min)", *snap.Status.StalenessMinutes)))
			}
			b.WriteString("\n\n")

			if !m.eventMode {
				b.WriteString(m.renderStats(snap.Stats, snap.HasCost, snap.CostUsed, labelStyle, valueStyle, dimStyle))
			}
		}

		if !m.eventMode && snap.RowsDropped > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("%d Zeilen übersprungen (unlesbar).", snap.RowsDropped)))
			b.WriteString("\n")
		}
	}

	if !m.eventMode {
		b.WriteString("\n")
		b.WriteString(m.renderEventLog(dimStyle))
	}

	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(valueStyle.Render(m.message))
		b.WriteString("\n")
	}

	// the event view hides consumption, cost and log for party guests
	hints := "p: Drucker | e: Event-Ansicht | ?: Hilfe | q: Beenden"
	if m.eventMode {
		hints = "e: Vollansicht | q: Beenden"
	} else if m.profile.HasAdmin {
		hints = "p: Drucker | e: Event-Ansicht | a: Admin | ?: Hilfe | q: Beenden"
	}
	b.WriteString(hintStyle.Render(hints))
	b.WriteString("\n")

	return b.String()
}

// renderStatusBanner colors the derived status line by severity. Fetch
// outcomes that yield no usable data replace the banner with a hint on
// what to check. A well-formed sheet whose rows all failed parsing left
// no observation either, so it gets the waiting text too.
func (m Model) renderStatusBanner(snap *monitor.Snapshot) string {
	errorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5f5f"))
	warnStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd700"))
	okStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5fff87"))

	if snap.Outcome == history.OutcomeBadSchema {
		return warnStyle.Render("⚠️ Tabellenformat unerwartet – Spalten der Statusliste prüfen.")
	}
	if snap.Outcome == history.OutcomeNoRows || !snap.HasData() {
		return warnStyle.Render("⏳ Warte auf Daten vom Drucker…")
	}

	switch snap.Status.Severity {
	case status.SeverityError:
		return errorStyle.Render(snap.Status.Display)
	case status.SeverityWarning:
		return warnStyle.Render(snap.Status.Display)
	default:
		return okStyle.Render(snap.Status.Display)
	}
}

// renderPaperGauge draws a fixed-width bar for the remaining paper ratio.
func (m Model) renderPaperGauge(ratio float64) string {
	fullStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#5fff87"))
	lowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd700"))
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))

	filled := int(ratio * gaugeWidth)
	if filled > gaugeWidth {
		filled = gaugeWidth
	}
	if filled < 0 {
		filled = 0
	}

	barStyle := fullStyle
	if ratio < 0.2 {
		barStyle = lowStyle
	}

	bar := barStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", gaugeWidth-filled))
	return fmt.Sprintf("[%s] %3.0f%%", bar, ratio*100)
}

func (m Model) renderStats(c stats.Consumption, hasCost bool, cost float64, labelStyle, valueStyle, dimStyle lipgloss.Style) string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("Verbrauch: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d Bilder in %s", c.PrintsTotal, stats.HumanizeMinutes(c.DurationMinutes))))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Durchsatz: "))
	if c.ThroughputOverall != nil {
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f Bilder/Min", *c.ThroughputOverall)))
	} else {
		b.WriteString(dimStyle.Render("–"))
	}
	if c.ThroughputWindow != nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  (aktuell %.1f/Min)", *c.ThroughputWindow)))
	}
	b.WriteString("\n")

	if hasCost {
		b.WriteString(labelStyle.Render("Materialkosten: "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.2f €", cost)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	return b.String()
}

func (m Model) renderEventLog(dimStyle lipgloss.Style) string {
	var b strings.Builder

	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd700"))
	b.WriteString(sectionStyle.Render("Ereignisse"))
	b.WriteString("\n")

	if len(m.eventLog) == 0 {
		b.WriteString(dimStyle.Render("Noch keine Ereignisse."))
		b.WriteString("\n")
		return b.String()
	}
	for _, line := range m.eventLog {
		b.WriteString(dimStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// renderPrinters renders the printer picker
func (m Model) renderPrinters() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7ff")).MarginBottom(1)
	itemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#00d7ff")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")).PaddingLeft(2)
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafff")).MarginTop(1)

	b.WriteString(titleStyle.Render("Drucker auswählen"))
	b.WriteString("\n\n")

	for i, name := range m.printers {
		line := name
		if name == m.printer {
			line += " (aktiv)"
		}
		if i == m.selection {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(itemStyle.Render("  " + line))
		}
		b.WriteString("\n")

		profile := m.cfg.Profile(name)
		b.WriteString(dimStyle.Render(fmt.Sprintf("Faktor %d, Rolle %d Bilder", profile.MediaFactor, profile.MaxPrints)))
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render("↑/↓: Auswahl | Enter: Übernehmen | Esc: Zurück"))
	b.WriteString("\n")

	return b.String()
}

// renderAdmin renders PIN entry or, once unlocked, the control actions
func (m Model) renderAdmin() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7ff")).MarginBottom(1)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f")).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafff")).MarginTop(1)

	b.WriteString(titleStyle.Render("Admin — " + m.printer))
	b.WriteString("\n\n")

	if !m.adminUnlocked {
		b.WriteString(valueStyle.Render("PIN: " + strings.Repeat("•", len(m.pinInput))))
		b.WriteString("\n")
		if m.message != "" {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(m.message))
			b.WriteString("\n")
		}
		b.WriteString(hintStyle.Render("Ziffern eingeben | Enter: Bestätigen | Esc: Zurück"))
		b.WriteString("\n")
		return b.String()
	}

	if m.profile.HasDSR {
		b.WriteString(valueStyle.Render("[l] Fotobox sperren"))
		b.WriteString("\n")
		b.WriteString(valueStyle.Render("[u] Fotobox entsperren"))
		b.WriteString("\n")
	}
	if m.profile.HasAqara {
		b.WriteString(valueStyle.Render("[o] Steckdose einschalten"))
		b.WriteString("\n")
		b.WriteString(valueStyle.Render("[f] Steckdose ausschalten"))
		b.WriteString("\n")
	}
	if !m.profile.HasDSR && !m.profile.HasAqara {
		b.WriteString(valueStyle.Render("Keine Steueraktionen für diesen Drucker."))
		b.WriteString("\n")
	}

	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(valueStyle.Render(m.message))
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render("Esc: Zurück | q: Beenden"))
	b.WriteString("\n")

	return b.String()
}

// renderHelp renders the key binding overview
func (m Model) renderHelp() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7ff")).MarginBottom(1)
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#87d7af"))
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafff")).MarginTop(1)

	b.WriteString(titleStyle.Render("Hilfe"))
	b.WriteString("\n\n")

	bindings := []struct {
		key  string
		desc string
	}{
		{"p", "Drucker auswählen"},
		{"e", "Event-Ansicht umschalten (nur Status, ohne Verbrauch)"},
		{"a", "Admin-Bereich (PIN erforderlich)"},
		{"l / u", "Fotobox sperren / entsperren (Admin)"},
		{"?", "Diese Hilfe"},
		{"q", "Beenden"},
	}
	for _, bind := range bindings {
		b.WriteString(keyStyle.Render(fmt.Sprintf("%-8s", bind.key)))
		b.WriteString(descStyle.Render(bind.desc))
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render("Esc: Zurück"))
	b.WriteString("\n")

	return b.String()
}
