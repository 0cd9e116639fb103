package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/linewatch/internal/equipment"
	"github.com/five82/linewatch/internal/provider"
)

// updateOverviewViewport sizes the overview viewport and re-renders its content.
func (m *Model) updateOverviewViewport() {
	if m.width == 0 || m.height == 0 {
		return
	}
	width := max(m.width-2, 1)
	height := max(m.height-chromeHeight-2, 1)
	if m.overviewViewport.Width == 0 {
		m.overviewViewport = viewport.New(width, height)
	}
	m.overviewViewport.Width = width
	m.overviewViewport.Height = height
	m.overviewViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.overviewViewport.SetContent(m.renderOverviewContent(width))
}

// renderOverview renders the summary view.
func (m Model) renderOverview() string {
	return m.renderTitledBox("Overview", m.overviewViewport.View(), m.width, m.height-chromeHeight, true)
}

// handleOverviewKey scrolls the overview.
func (m Model) handleOverviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.overviewViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.overviewViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Top):
		m.overviewViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.overviewViewport.GotoBottom()
	case key.Matches(msg, m.keys.PageDown):
		m.overviewViewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.overviewViewport.PageUp()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.overviewViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.overviewViewport.HalfPageUp()
	}
	return m, nil
}

// renderOverviewContent lists statistics, data source, filters, the per-type
// breakdown and assets due for maintenance.
func (m Model) renderOverviewContent(width int) string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	snap := m.snapshot

	if !snap.HasData {
		msg := "Waiting for the first refresh..."
		if snap.LastError != nil {
			msg = "Equipment data unavailable: " + snap.LastError.Error()
		}
		return bg.FillLine(bg.Render(msg, styles.MutedText), width)
	}

	var lines []string
	section := func(title string) {
		if len(lines) > 0 {
			lines = append(lines, bg.FillLine("", width))
		}
		lines = append(lines, bg.FillLine(bg.Render(title, styles.AccentText.Bold(true)), width))
	}
	row := func(label, value string, valueStyle lipgloss.Style) {
		lines = append(lines, bg.FillLine(bg.Render(fit("  "+label, 20), styles.MutedText)+bg.Render(truncate(value, max(width-21, 8)), valueStyle), width))
	}

	stats := snap.Statistics
	section("Statistics")
	row("Total", fmt.Sprintf("%d", stats.TotalEquipment), styles.Text)
	for _, status := range equipment.Statuses() {
		row(fmt.Sprintf("%s (%s)", status, status.Label()), fmt.Sprintf("%d", statusCount(stats, status)),
			lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(status))))
	}
	avg, ok := stats.AverageEfficiency()
	avgStyle := styles.MutedText
	if ok {
		avgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.EfficiencyColor(avg)))
	}
	row("Avg efficiency", formatAverage(avg, ok), avgStyle)
	row("Operating hours", formatHours(stats.TotalOperatingHours), styles.Text)

	section("Data Source")
	if snap.Origin == provider.OriginLocal {
		row("Origin", "local dataset", styles.WarningText)
		if snap.RemoteErr != nil {
			row("Remote error", snap.RemoteErr.Error(), styles.DangerText)
		}
	} else {
		row("Origin", "remote API", styles.SuccessText)
	}
	if m.config != nil {
		row("API", m.config.APIURL, styles.Text)
	}
	if snap.HasConnection {
		connStyle := ternaryStyle(snap.Connection.Connected, styles.SuccessText, styles.DangerText)
		row("Connection", snap.Connection.Message, connStyle)
		row("Checked", snap.CheckedAt.Format("2006-01-02 15:04:05"), styles.MutedText)
	} else {
		row("Connection", "not tested", styles.MutedText)
	}
	if !snap.LastUpdated.IsZero() {
		row("Updated", snap.LastUpdated.Format("2006-01-02 15:04:05"), styles.MutedText)
	}
	if snap.ConsecutiveFailures > 0 {
		row("Failed refreshes", fmt.Sprintf("%d in a row", snap.ConsecutiveFailures), styles.WarningText)
	}

	section("Filters")
	if summary := filterSummary(snap.Filters); summary != "" {
		row("Applied", summary, styles.Text)
	} else {
		row("Applied", "none", styles.MutedText)
	}

	section("By Type")
	for _, tc := range typeCounts(snap.Records) {
		row(tc.name, fmt.Sprintf("%d", tc.count), styles.Text)
	}

	section("Maintenance Due")
	due := 0
	for _, rec := range snap.Records {
		if !rec.MaintenanceDue() {
			continue
		}
		due++
		detail := rec.Location
		if rec.NextMaintenanceDate != nil {
			detail += " · next " + rec.NextMaintenanceDate.String()
		}
		row(fmt.Sprintf("#%d %s", rec.EquipmentID, rec.EquipmentName), detail, styles.WarningText)
	}
	if due == 0 {
		row("None", "", styles.MutedText)
	}

	return strings.Join(lines, "\n")
}

type typeCount struct {
	name  string
	count int
}

// typeCounts returns per-type counts ordered by count, then name.
func typeCounts(records []equipment.Record) []typeCount {
	counts := equipment.CountByType(records)
	out := make([]typeCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, typeCount{name: name, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	return out
}

func ternaryStyle(cond bool, a, b lipgloss.Style) lipgloss.Style {
	if cond {
		return a
	}
	return b
}
