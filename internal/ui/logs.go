package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/linewatch/internal/logtail"
)

// logState holds all log-related state.
type logState struct {
	rawLines    []string
	entries     []logtail.Entry
	follow      bool
	lastRefresh time.Time
	err         error

	// Search
	searchActive   bool
	searchQuery    string
	searchRegex    *regexp.Regexp
	searchInput    textinput.Model
	searchMatches  []int // Line indices that match
	searchMatchIdx int   // Current match index

	// Content caching - skip re-render when unchanged
	contentVersion uint64
	lastRendered   uint64
}

// logBatchMsg carries the tail of the log file.
type logBatchMsg struct {
	lines []string
	err   error
}

// initLogState initializes the log state.
func (m *Model) initLogState() {
	ti := textinput.New()
	ti.Placeholder = "Search logs..."
	ti.CharLimit = 100

	m.logState = logState{follow: true}
	m.logState.searchInput = ti
}

// logPath returns the file the dashboard logs to, empty when unknown.
func (m Model) logPath() string {
	if m.config == nil {
		return ""
	}
	return m.config.LogPath()
}

// refreshLogs reads the log tail in the background. Unforced refreshes are
// skipped when the last read is more recent than LogRefreshInterval.
func (m Model) refreshLogs(force bool) tea.Cmd {
	path := m.logPath()
	if path == "" {
		return nil
	}
	if !force && time.Since(m.logState.lastRefresh) < LogRefreshInterval {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return logBatchMsg{lines: lines, err: err}
	}
}

// handleLogBatch installs a freshly read log tail.
func (m *Model) handleLogBatch(msg logBatchMsg) {
	m.logState.lastRefresh = time.Now()
	m.logState.err = msg.err
	if msg.err != nil {
		m.logState.contentVersion++
		m.updateLogViewport()
		return
	}
	if equalLines(m.logState.rawLines, msg.lines) && m.logState.lastRendered != 0 {
		return
	}
	m.logState.rawLines = msg.lines
	m.logState.entries = logtail.ParseLines(msg.lines)
	if m.logState.searchRegex != nil {
		m.findSearchMatches()
	}
	m.logState.contentVersion++
	m.updateLogViewport()
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// updateLogViewport sizes the viewport and re-renders content when it changed.
func (m *Model) updateLogViewport() {
	if m.width == 0 || m.height == 0 {
		return
	}
	// box borders, plus the status line below the box
	width := max(m.width-2, 1)
	height := max(m.height-chromeHeight-3, 1)
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(width, height)
	}
	m.logViewport.Width = width
	m.logViewport.Height = height
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	if m.logState.lastRendered == 0 || m.logState.contentVersion != m.logState.lastRendered {
		m.logViewport.SetContent(m.renderLogContent())
		m.logState.lastRendered = max(m.logState.contentVersion, 1)
	}

	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	contentHeight := m.height - chromeHeight - 1

	title := "Dashboard Log"
	if path := m.logPath(); path != "" {
		title += " · " + path
	}
	box := m.renderTitledBox(title, m.logViewport.View(), m.width, contentHeight, true)
	return box + "\n" + bg.FillLine(m.renderLogStatus(styles, bg), m.width)
}

// renderLogStatus renders the line below the log box.
func (m Model) renderLogStatus(styles Styles, bg BgStyle) string {
	if m.logState.searchActive {
		return bg.Render("/", styles.AccentText) + bg.Render(m.logState.searchInput.Value(), styles.Text)
	}
	if m.logState.searchRegex != nil {
		if len(m.logState.searchMatches) == 0 {
			return bg.Render("Pattern not found: "+m.logState.searchQuery, styles.DangerText)
		}
		return bg.Render("/"+m.logState.searchQuery, styles.AccentText) +
			bg.Render(" - ", styles.FaintText) +
			bg.Render(fmt.Sprintf("%d/%d", m.logState.searchMatchIdx+1, len(m.logState.searchMatches)), styles.WarningText) +
			bg.Render(" - n/N to move, Esc to clear", styles.FaintText)
	}

	parts := []string{
		bg.Render(fmt.Sprintf("%d lines", len(m.logState.rawLines)), styles.FaintText),
		bg.Render("auto-tail "+ternary(m.logState.follow, "on", "off"), styles.FaintText),
	}
	if !m.logState.lastRefresh.IsZero() {
		parts = append(parts, bg.Render("read "+m.logState.lastRefresh.Format("15:04:05"), styles.FaintText))
	}
	if m.logState.err != nil {
		parts = append(parts, bg.Render(truncate(m.logState.err.Error(), 60), styles.DangerText))
	}
	return bg.Join(parts, " • ")
}

// renderLogContent renders every entry, highlighting search matches.
func (m *Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.logViewport.Width

	if len(m.logState.entries) == 0 {
		msg := "No log entries"
		if m.logState.err != nil {
			msg = "Log unavailable: " + m.logState.err.Error()
		}
		return bg.FillLine(bg.Render(msg, styles.MutedText), width)
	}

	matchSet := make(map[int]bool, len(m.logState.searchMatches))
	for _, idx := range m.logState.searchMatches {
		matchSet[idx] = true
	}
	activeMatchLine := -1
	if m.logState.searchMatchIdx < len(m.logState.searchMatches) {
		activeMatchLine = m.logState.searchMatches[m.logState.searchMatchIdx]
	}

	lines := make([]string, 0, len(m.logState.entries))
	for i, entry := range m.logState.entries {
		lineNum := fmt.Sprintf("%4d │ ", i+1)
		var content string
		switch {
		case i == activeMatchLine:
			hl := lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Warning)).Foreground(lipgloss.Color(m.theme.Background))
			content = hl.Render(lineNum + formatLogEntry(entry))
		case matchSet[i]:
			content = bg.Render(lineNum, styles.AccentText) + bg.Render(formatLogEntry(entry), styles.AccentText)
		default:
			content = bg.Render(lineNum, styles.FaintText) + m.colorizeEntry(entry, styles, bg)
		}
		lines = append(lines, bg.FillLine(content, width))
	}
	return strings.Join(lines, "\n")
}

// formatLogEntry renders an entry as plain text: time, level, message, error,
// then key=value fields.
func formatLogEntry(e logtail.Entry) string {
	if e.Level == "" && e.Time.IsZero() {
		return e.Message
	}
	parts := make([]string, 0, 4+len(e.Fields))
	if !e.Time.IsZero() {
		parts = append(parts, e.Time.Local().Format("15:04:05"))
	}
	parts = append(parts, levelLabel(e.Level))
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Error != "" {
		parts = append(parts, "error="+e.Error)
	}
	for _, f := range e.Fields {
		parts = append(parts, f.Key+"="+f.Value)
	}
	return strings.Join(parts, " ")
}

// colorizeEntry is formatLogEntry with per-part styling.
func (m *Model) colorizeEntry(e logtail.Entry, styles Styles, bg BgStyle) string {
	if e.Level == "" && e.Time.IsZero() {
		return bg.Render(e.Message, styles.Text)
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(bg.Render(e.Time.Local().Format("15:04:05"), styles.FaintText))
		b.WriteString(bg.Space())
	}
	b.WriteString(bg.Render(levelLabel(e.Level), levelStyle(e.Level, styles).Bold(true)))
	if e.Message != "" {
		b.WriteString(bg.Space())
		b.WriteString(bg.Render(e.Message, styles.Text))
	}
	if e.Error != "" {
		b.WriteString(bg.Space())
		b.WriteString(bg.Render("error="+e.Error, styles.DangerText))
	}
	for _, f := range e.Fields {
		b.WriteString(bg.Space())
		b.WriteString(bg.Render(f.Key+"=", styles.FaintText))
		b.WriteString(bg.Render(f.Value, styles.MutedText))
	}
	return b.String()
}

// levelLabel returns a fixed-width, upper-case level tag.
func levelLabel(level string) string {
	switch strings.ToLower(level) {
	case "debug":
		return "DBG"
	case "info":
		return "INF"
	case "warn", "warning":
		return "WRN"
	case "error":
		return "ERR"
	case "fatal", "panic":
		return "FTL"
	case "trace":
		return "TRC"
	default:
		return "???"
	}
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToLower(level) {
	case "info":
		return styles.SuccessText
	case "warn", "warning":
		return styles.WarningText
	case "error", "fatal", "panic":
		return styles.DangerText
	case "debug", "trace":
		return styles.InfoText
	default:
		return styles.Text
	}
}

// handleLogsKey processes keyboard input for logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		m.updateLogViewport()
		if m.logState.follow {
			return m, m.refreshLogs(true)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.logState.searchActive = true
		m.logState.searchInput.SetValue("")
		cmd := m.logState.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.NextMatch):
		m.moveSearchMatch(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevMatch):
		m.moveSearchMatch(-1)
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.logState.searchRegex != nil {
			m.clearLogSearch()
			m.updateLogViewport()
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logState.follow = false
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logState.follow = true
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
		m.logState.follow = false
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
		m.logState.follow = false
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
		m.logState.follow = false
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
		m.logState.follow = false
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.PageDown()
		m.logState.follow = false
	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.PageUp()
		m.logState.follow = false
	}
	return m, nil
}

// handleLogSearchInput handles keyboard input during log search.
func (m Model) handleLogSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		query := m.logState.searchInput.Value()
		if query == "" {
			m.logState.searchActive = false
			m.logState.searchInput.Blur()
			return m, nil
		}
		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			// Invalid regex - stay in search mode
			return m, nil
		}
		m.logState.searchRegex = re
		m.logState.searchQuery = query
		m.logState.searchActive = false
		m.logState.searchInput.Blur()
		m.findSearchMatches()
		if len(m.logState.searchMatches) > 0 {
			m.logState.searchMatchIdx = 0
			m.logState.follow = false
			m.updateLogViewport()
			m.scrollToSearchMatch()
		} else {
			m.updateLogViewport()
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.logState.searchActive = false
		m.logState.searchInput.Blur()
		m.logState.searchInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.logState.searchInput, cmd = m.logState.searchInput.Update(msg)
	return m, cmd
}

// clearLogSearch clears the search state.
func (m *Model) clearLogSearch() {
	m.logState.searchRegex = nil
	m.logState.searchQuery = ""
	m.logState.searchMatches = nil
	m.logState.searchMatchIdx = 0
	m.logState.contentVersion++
}

// findSearchMatches finds all entries whose plain rendering matches the search.
func (m *Model) findSearchMatches() {
	m.logState.searchMatches = nil
	m.logState.searchMatchIdx = 0
	if m.logState.searchRegex == nil {
		return
	}
	for i, entry := range m.logState.entries {
		if m.logState.searchRegex.MatchString(formatLogEntry(entry)) {
			m.logState.searchMatches = append(m.logState.searchMatches, i)
		}
	}
	m.logState.contentVersion++
}

// moveSearchMatch steps through matches, wrapping at either end.
func (m *Model) moveSearchMatch(step int) {
	n := len(m.logState.searchMatches)
	if n == 0 {
		return
	}
	m.logState.searchMatchIdx = cycle(m.logState.searchMatchIdx, step, n)
	m.logState.follow = false
	m.logState.contentVersion++
	m.updateLogViewport()
	m.scrollToSearchMatch()
}

// scrollToSearchMatch centers the viewport on the current match.
func (m *Model) scrollToSearchMatch() {
	if m.logState.searchMatchIdx >= len(m.logState.searchMatches) {
		return
	}
	line := m.logState.searchMatches[m.logState.searchMatchIdx]
	m.logViewport.SetYOffset(max(line-m.logViewport.Height/2, 0))
}
