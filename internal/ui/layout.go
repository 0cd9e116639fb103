package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutExtraWideWidth is the threshold for extra-wide layouts.
	LayoutExtraWideWidth = 160
)

// Log display limits.
const (
	// LogTailLines is the number of trailing log lines read per refresh.
	LogTailLines = 500
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// LogRefreshInterval is the minimum time between log file reads.
	LogRefreshInterval = 2 * time.Second

	// ActionTimeout is the minimum bound on on-demand refreshes and connection tests.
	ActionTimeout = 15 * time.Second

	// actionSlack is added to the API client timeout when that exceeds ActionTimeout.
	actionSlack = 5 * time.Second
)

// chromeHeight is the header plus command bar.
const chromeHeight = 2

// renderTitledBox renders content in a box with the title embedded in the top border:
// ┌─── Title ───┐. Focused boxes use BorderFocus and FocusBg.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColor, bgColor := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColor, bgColor = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleWidth := cellWidth(title)
	leftPad := max((innerWidth-titleWidth-2)/2, 0)
	rightPad := max(innerWidth-titleWidth-2-leftPad, 0)

	top := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)
	bottom := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	lineStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColor))
	contentLines := strings.Split(content, "\n")
	rows := max(height-2, 0)
	lines := make([]string, 0, rows+2)
	lines = append(lines, top)
	for i := range rows {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines, bg.Render("│", borderStyle)+lineStyle.Render(line)+bg.Render("│", borderStyle))
	}
	lines = append(lines, bottom)
	return strings.Join(lines, "\n")
}

// renderModal centers a rounded, accent-bordered box over the screen.
func (m Model) renderModal(content string, width int) string {
	return placeModal(m.theme, m.width, m.height, content, width)
}

func placeModal(theme Theme, screenWidth, screenHeight int, content string, width int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(width).
		Render(content)
	return lipgloss.Place(
		screenWidth,
		screenHeight,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
