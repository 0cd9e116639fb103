package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/linewatch/internal/equipment"
)

// Column widths of the equipment table, in terminal cells.
const (
	colID         = 4
	colType       = 11
	colStatus     = 13
	colEfficiency = 7
	colLocation   = 16
)

// selectedRecord returns the highlighted record, or nil when the list is empty.
func (m Model) selectedRecord() *equipment.Record {
	if m.selectedRow < 0 || m.selectedRow >= len(m.snapshot.Records) {
		return nil
	}
	return &m.snapshot.Records[m.selectedRow]
}

// clampSelection keeps the selection inside the record list.
func (m *Model) clampSelection() {
	n := len(m.snapshot.Records)
	switch {
	case n == 0:
		m.selectedRow = 0
	case m.selectedRow >= n:
		m.selectedRow = n - 1
	case m.selectedRow < 0:
		m.selectedRow = 0
	}
}

// handleEquipmentKey processes keyboard input for the equipment view.
func (m Model) handleEquipmentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snapshot.Records)
	if count == 0 {
		return m, nil
	}
	page := max(m.tableRows()-1, 1)

	switch {
	case key.Matches(msg, m.keys.Down):
		m.selectedRow++
	case key.Matches(msg, m.keys.Up):
		m.selectedRow--
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = count - 1
	case key.Matches(msg, m.keys.PageDown):
		m.selectedRow += page
	case key.Matches(msg, m.keys.PageUp):
		m.selectedRow -= page
	case key.Matches(msg, m.keys.HalfPageDown):
		m.selectedRow += page / 2
	case key.Matches(msg, m.keys.HalfPageUp):
		m.selectedRow -= page / 2
	}
	m.clampSelection()
	return m, nil
}

// tableRows is the number of record rows visible in the table pane.
func (m Model) tableRows() int {
	// box borders and the column header row
	return max(m.height-chromeHeight-3, 1)
}

// renderEquipment renders the equipment view with split layout (table + detail).
func (m Model) renderEquipment() string {
	styles := m.theme.Styles()
	contentHeight := m.height - chromeHeight

	if len(m.snapshot.Records) == 0 {
		msg := "No equipment matches the current filters"
		switch {
		case !m.snapshot.HasData && m.snapshot.LastError != nil:
			msg = "Equipment data unavailable: " + m.snapshot.LastError.Error()
		case !m.snapshot.HasData:
			msg = "Loading equipment..."
		}
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	}

	// Extra wide: 60% table, 40% detail. Default: 55/45.
	tableWidth := m.width * 55 / 100
	if m.width >= LayoutExtraWideWidth {
		tableWidth = m.width * 60 / 100
	}
	detailWidth := m.width - tableWidth

	tableFocused := m.focusedPane == 0
	tableBg := ternary(tableFocused, m.theme.FocusBg, m.theme.SurfaceAlt)
	table := m.renderEquipmentTable(tableWidth-2, tableBg)
	tablePane := m.renderTitledBox(m.equipmentTitle(), table, tableWidth, contentHeight, tableFocused)

	detailFocused := m.focusedPane == 1
	detailBg := ternary(detailFocused, m.theme.FocusBg, m.theme.SurfaceAlt)
	var detail string
	if rec := m.selectedRecord(); rec != nil {
		detail = m.renderRecordDetail(*rec, detailWidth-2, detailBg)
	}
	detailPane := m.renderTitledBox("Details", detail, detailWidth, contentHeight, detailFocused)

	return lipgloss.JoinHorizontal(lipgloss.Top, tablePane, detailPane)
}

// equipmentTitle returns the table pane title with count and active filters.
func (m Model) equipmentTitle() string {
	title := fmt.Sprintf("Equipment (%d)", len(m.snapshot.Records))
	if summary := filterSummary(m.snapshot.Filters); summary != "" {
		title += " " + summary
	}
	return title
}

// tableLayout reports which optional columns fit and the name column width.
func tableLayout(width int) (showLocation bool, nameWidth int) {
	fixed := colID + colType + colStatus + colEfficiency + 5 // single-space gaps
	showLocation = width-fixed-colLocation-1 >= 16
	if showLocation {
		fixed += colLocation + 1
	}
	return showLocation, max(width-fixed, 8)
}

// renderEquipmentTable renders the header row plus the visible window of records.
func (m Model) renderEquipmentTable(width int, bgColor string) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	showLocation, nameWidth := tableLayout(width)

	headers := []string{fit("ID", colID), fit("Name", nameWidth), fit("Type", colType)}
	if showLocation {
		headers = append(headers, fit("Location", colLocation))
	}
	headers = append(headers, fit("Status", colStatus), fit("Eff", colEfficiency))
	lines := []string{bg.FillLine(bg.Render(strings.Join(headers, " "), styles.FaintText.Bold(true)), width)}

	records := m.snapshot.Records
	rows := m.tableRows()
	start := 0
	if m.selectedRow >= rows {
		start = m.selectedRow - rows + 1
	}
	end := min(start+rows, len(records))

	for i := start; i < end; i++ {
		rec := records[i]
		selected := i == m.selectedRow
		rowBg := ternary(selected, m.theme.SelectionBg, bgColor)
		lines = append(lines, NewBgStyle(rowBg).FillLine(m.formatRecordRow(rec, nameWidth, showLocation, rowBg, selected), width))
	}
	return strings.Join(lines, "\n")
}

// formatRecordRow formats one table row. Selected rows use SelectionText for
// every cell so the row keeps contrast against SelectionBg.
func (m Model) formatRecordRow(rec equipment.Record, nameWidth int, showLocation bool, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	idStyle, textStyle, statusStyle, effStyle := styles.MutedText, styles.Text, styles.Text, styles.Text
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		idStyle, textStyle, statusStyle, effStyle = sel, sel, sel, sel
	} else {
		statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(rec.Status)))
		effStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.EfficiencyColor(rec.Efficiency)))
	}

	cells := []string{
		bg.Render(fit(fmt.Sprintf("#%d", rec.EquipmentID), colID), idStyle),
		bg.Render(fit(rec.EquipmentName, nameWidth), textStyle),
		bg.Render(fit(rec.EquipmentType, colType), textStyle),
	}
	if showLocation {
		cells = append(cells, bg.Render(fit(rec.Location, colLocation), textStyle))
	}
	status := "● " + string(rec.Status)
	if rec.MaintenanceDue() && rec.Status != equipment.StatusMaintenance {
		status += " !"
	}
	cells = append(cells,
		bg.Render(fit(status, colStatus), statusStyle),
		bg.Render(fit(formatEfficiency(rec.Efficiency), colEfficiency), effStyle),
	)
	return bg.Join(cells, " ")
}

// renderRecordDetail renders every field of a record as label/value lines.
func (m Model) renderRecordDetail(rec equipment.Record, width int, bgColor string) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	labelWidth := 14
	valueWidth := max(width-labelWidth-2, 8)

	line := func(label, value string, valueStyle lipgloss.Style) string {
		if strings.TrimSpace(value) == "" {
			value = "-"
		}
		return bg.FillLine(bg.Render(fit(label, labelWidth), styles.MutedText)+bg.Space()+bg.Render(truncate(value, valueWidth), valueStyle), width)
	}
	blank := bg.FillLine("", width)

	heading := bg.Render(truncate(rec.EquipmentName, width-2), styles.Text.Bold(true))
	badge := styles.StatusStyle(rec.Status).Render(rec.Status.Label())

	lines := []string{
		bg.FillLine(heading, width),
		bg.FillLine(badge+bg.Space()+bg.Render(fmt.Sprintf("#%d · %s", rec.EquipmentID, rec.EquipmentType), styles.MutedText), width),
		blank,
		line("Location", rec.Location, styles.Text),
		line("Manufacturer", rec.Manufacturer, styles.Text),
		line("Model", rec.Model, styles.Text),
		line("Serial", rec.SerialNumber, styles.Text),
		line("Responsible", rec.ResponsiblePerson, styles.Text),
		line("Installed", rec.InstallationDate.String(), styles.Text),
		blank,
		line("Efficiency", formatEfficiency(rec.Efficiency), lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.EfficiencyColor(rec.Efficiency)))),
		line("Temperature", fmt.Sprintf("%.1f °C", rec.CurrentTemperature), styles.Text),
		line("Vibration", fmt.Sprintf("%.2f mm/s", rec.CurrentVibration), styles.Text),
		line("Operating", formatHours(rec.OperatingHours), styles.Text),
		line("Cycle", formatHours(rec.MaintenanceCycleHours), styles.Text),
		blank,
		line("Last service", dateString(rec.LastMaintenanceDate), styles.Text),
		line("Next service", dateString(rec.NextMaintenanceDate), styles.Text),
	}
	if rec.MaintenanceDue() {
		lines = append(lines, blank, bg.FillLine(bg.Render("Maintenance due", styles.WarningText.Bold(true)), width))
	}
	return strings.Join(lines, "\n")
}

func dateString(d *equipment.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
