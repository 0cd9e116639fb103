package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/linewatch/internal/equipment"
	"github.com/five82/linewatch/internal/provider"
)

const appName = "linewatch"

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if !m.snapshot.HasData {
		return m.renderConnectingHeader(styles, bg)
	}
	return styles.Header.Width(m.width).MaxHeight(1).Render(m.buildStatusContent(styles, bg))
}

// renderConnectingHeader shows the state before any data arrived.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	parts := []string{bg.Render(appName, styles.Logo)}
	if m.snapshot.LastError != nil {
		parts = append(parts,
			bg.Render("NO DATA", styles.DangerText),
			bg.Render(truncate(m.snapshot.LastError.Error(), 80), styles.DangerText),
		)
		if m.config != nil {
			parts = append(parts, bg.label("logs", truncate(m.config.LogPath(), 50), styles.FaintText, styles.MutedText))
		}
	} else {
		parts = append(parts, bg.Render("Loading equipment data...", styles.WarningText.Bold(true)))
	}
	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < LayoutCompactWidth
	stats := m.snapshot.Statistics

	parts := []string{
		bg.Render(appName, styles.Logo),
		m.originBadge(styles),
		m.connectionIndicator(styles, bg, compact),
	}

	total := "Total:"
	if compact {
		total = "T:"
	}
	parts = append(parts, bg.label(total, fmt.Sprintf("%d", stats.TotalEquipment), styles.MutedText, styles.Text))

	counts := make([]string, 0, 3)
	for _, status := range []equipment.Status{equipment.StatusActive, equipment.StatusMaintenance, equipment.StatusInactive} {
		n := statusCount(stats, status)
		style := styles.MutedText
		if n > 0 {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(status))).Background(bg.bg)
		}
		name := string(status) + ":"
		if compact {
			name = string(status)[:1] + ":"
		}
		counts = append(counts, bg.label(name, fmt.Sprintf("%d", n), styles.MutedText, style))
	}
	parts = append(parts, bg.Join(counts, " • "))

	avg, ok := stats.AverageEfficiency()
	avgStyle := styles.MutedText
	if ok {
		avgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.EfficiencyColor(avg))).Background(bg.bg)
	}
	parts = append(parts, bg.label(ternary(compact, "Eff:", "Avg eff:"), formatAverage(avg, ok), styles.MutedText, avgStyle))

	if ts := m.formatTimestamp(time.Now()); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if m.snapshot.LastError != nil {
		maxErr := 80
		if compact {
			maxErr = 40
		}
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText)+bg.Space()+
				bg.Render(truncate(m.snapshot.LastError.Error(), maxErr), styles.DangerText))
	}
	return bg.Join(parts, "  ")
}

// originBadge shows where the displayed records came from.
func (m Model) originBadge(styles Styles) string {
	if m.snapshot.Origin == provider.OriginLocal {
		return styles.BadgeStyle(m.theme.Warning).Render("LOCAL")
	}
	return styles.BadgeStyle(m.theme.Success).Render("REMOTE")
}

// connectionIndicator shows the last connection probe.
func (m Model) connectionIndicator(styles Styles, bg BgStyle, compact bool) string {
	if !m.snapshot.HasConnection {
		return bg.Render("● API ?", styles.MutedText)
	}
	if m.snapshot.Connection.Connected {
		return bg.Render("● API", styles.SuccessText)
	}
	label := "● API " + classifyConnectionError(m.snapshot.RemoteErr)
	if compact {
		label = "● API"
	}
	return bg.Render(label, styles.DangerText)
}

func statusCount(stats equipment.Statistics, status equipment.Status) int {
	switch status {
	case equipment.StatusActive:
		return stats.ActiveEquipment
	case equipment.StatusMaintenance:
		return stats.MaintenanceEquipment
	case equipment.StatusInactive:
		return stats.InactiveEquipment
	}
	return 0
}

// formatTimestamp formats the last update time with a relative indicator.
func (m Model) formatTimestamp(now time.Time) string {
	if m.lastUpdated.IsZero() {
		return ""
	}
	since := now.Sub(m.lastUpdated)
	ts := m.lastUpdated.Format("15:04:05")
	switch {
	case since < time.Minute:
		ts += " (now)"
	case since < time.Hour:
		ts += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		ts += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return ts
}

// classifyConnectionError returns a short description of a remote failure.
func classifyConnectionError(err error) string {
	if err == nil {
		return "OFFLINE"
	}
	var te *equipment.TransportError
	if errors.As(err, &te) {
		if te.Timeout() {
			return "TIMEOUT"
		}
		if te.StatusCode > 0 {
			return fmt.Sprintf("HTTP %d", te.StatusCode)
		}
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd
	switch m.currentView {
	case ViewLogs:
		commands = []cmd{
			{"Space", ternary(m.logState.follow, "Pause", "Follow")},
			{"/", "Search"},
			{"n/N", "Next/Prev"},
			{"q", "Equipment"},
			{"o", "Overview"},
			{"?", "More"},
		}
	case ViewOverview:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"r", "Refresh"},
			{"c", "Test API"},
			{"q", "Equipment"},
			{"l", "Logs"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"f", "Filters"},
			{"x", "Clear"},
			{"r", "Refresh"},
			{"c", "Test API"},
			{"j/k", "Navigate"},
			{"o", "Overview"},
			{"l", "Logs"},
			{"Tab", "Focus"},
			{"?", "More"},
		}
	}

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, len(commands)+3)
	for _, c := range commands {
		segments = append(segments, bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.currentView == ViewLogs && m.logState.searchQuery != "" {
		segments = append(segments, bg.Render("/"+truncate(m.logState.searchQuery, 18), styles.AccentText))
	}
	segments = append(segments, bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	if m.notice != "" {
		style := styles.InfoText
		if m.noticeErr {
			style = styles.WarningText
		}
		segments = append(segments, bg.Render(truncate(m.notice, 60), style))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(bg.Join(segments, "  "))
}
