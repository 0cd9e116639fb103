package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/linewatch/internal/equipment"
)

// Filter modal fields, in focus order.
const (
	fieldStatus = iota
	fieldType
	fieldLocation
	fieldLimit
	fieldCount
)

const choiceAll = "All"

// filterModal edits the equipment filters. Status and type cycle through fixed
// choices; location and limit are free text.
type filterModal struct {
	statuses []string // choiceAll first
	types    []string // choiceAll first
	status   int
	kind     int

	location  textinput.Model
	limit     textinput.Model
	locations []string // hint only; location matches as a substring

	focus int
	err   string

	applied bool
	result  equipment.Filters
}

func newFilterModal(current equipment.Filters, statuses []equipment.Status, types, locations []string) *filterModal {
	fm := &filterModal{
		statuses:  []string{choiceAll},
		types:     []string{choiceAll},
		locations: locations,
	}
	for _, s := range statuses {
		fm.statuses = append(fm.statuses, string(s))
	}
	fm.types = append(fm.types, types...)
	fm.status = indexOf(fm.statuses, current.Status)
	fm.kind = indexOf(fm.types, current.EquipmentType)
	if fm.kind == 0 && strings.TrimSpace(current.EquipmentType) != "" {
		// Keep a type the catalog does not list yet.
		fm.types = append(fm.types, strings.TrimSpace(current.EquipmentType))
		fm.kind = len(fm.types) - 1
	}

	fm.location = textinput.New()
	fm.location.Placeholder = "e.g. 第1工場"
	fm.location.CharLimit = 64
	fm.location.Width = 30
	fm.location.SetValue(current.Location)

	fm.limit = textinput.New()
	fm.limit.Placeholder = "no limit"
	fm.limit.CharLimit = 6
	fm.limit.Width = 10
	if current.Limit > 0 {
		fm.limit.SetValue(strconv.Itoa(current.Limit))
	}

	fm.setFocus(fieldStatus)
	return fm
}

func indexOf(values []string, want string) int {
	want = strings.TrimSpace(want)
	for i, v := range values {
		if i > 0 && v == want {
			return i
		}
	}
	return 0
}

func (fm *filterModal) setFocus(field int) {
	fm.focus = (field + fieldCount) % fieldCount
	fm.location.Blur()
	fm.limit.Blur()
	switch fm.focus {
	case fieldLocation:
		fm.location.Focus()
	case fieldLimit:
		fm.limit.Focus()
	}
}

// Update implements Modal.
func (fm *filterModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return fm, fm.updateInput(msg), false
	}

	switch {
	case key.Matches(keyMsg, keys.Escape):
		return fm, nil, true

	case key.Matches(keyMsg, keys.Confirm):
		filters, err := fm.filters()
		if err != nil {
			fm.err = err.Error()
			return fm, nil, false
		}
		fm.applied = true
		fm.result = filters
		return fm, nil, true

	// Arrow keys only; j/k must reach the text inputs.
	case key.Matches(keyMsg, keys.Tab), keyMsg.Type == tea.KeyDown:
		fm.setFocus(fm.focus + 1)
		return fm, nil, false

	case key.Matches(keyMsg, keys.ShiftTab), keyMsg.Type == tea.KeyUp:
		fm.setFocus(fm.focus - 1)
		return fm, nil, false

	case keyMsg.String() == "ctrl+c":
		// Clear all fields (modal-specific, doesn't quit)
		fm.status, fm.kind = 0, 0
		fm.location.SetValue("")
		fm.limit.SetValue("")
		fm.err = ""
		return fm, nil, false
	}

	if fm.focus == fieldStatus || fm.focus == fieldType {
		step := 0
		switch {
		case key.Matches(keyMsg, keys.Left):
			step = -1
		case key.Matches(keyMsg, keys.Right), keyMsg.String() == " ":
			step = 1
		}
		if fm.focus == fieldStatus {
			fm.status = cycle(fm.status, step, len(fm.statuses))
		} else {
			fm.kind = cycle(fm.kind, step, len(fm.types))
		}
		return fm, nil, false
	}

	fm.err = ""
	return fm, fm.updateInput(msg), false
}

func (fm *filterModal) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch fm.focus {
	case fieldLocation:
		fm.location, cmd = fm.location.Update(msg)
	case fieldLimit:
		fm.limit, cmd = fm.limit.Update(msg)
	}
	return cmd
}

func cycle(i, step, n int) int {
	if n == 0 {
		return 0
	}
	return ((i+step)%n + n) % n
}

// filters converts the modal fields into Filters. The limit must be a positive
// integer when set.
func (fm *filterModal) filters() (equipment.Filters, error) {
	var f equipment.Filters
	if fm.status > 0 {
		f.Status = fm.statuses[fm.status]
	}
	if fm.kind > 0 {
		f.EquipmentType = fm.types[fm.kind]
	}
	f.Location = strings.TrimSpace(fm.location.Value())
	if raw := strings.TrimSpace(fm.limit.Value()); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return equipment.Filters{}, fmt.Errorf("limit must be a positive number")
		}
		f.Limit = n
	}
	return f, nil
}

// View implements Modal.
func (fm *filterModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Equipment Filters"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 40)))
	b.WriteString("\n\n")

	label := func(field int, text string) string {
		text = padRight(text, 11)
		if fm.focus == field {
			return styles.AccentText.Render(text)
		}
		return styles.MutedText.Render(text)
	}
	choice := func(field int, value string) string {
		if fm.focus == field {
			return styles.Text.Render("‹ " + value + " ›")
		}
		return styles.Text.Render("  " + value)
	}

	statusLabel := fm.statuses[fm.status]
	if fm.status > 0 {
		statusLabel += " (" + equipment.Status(statusLabel).Label() + ")"
	}
	b.WriteString(label(fieldStatus, "Status:") + choice(fieldStatus, statusLabel) + "\n\n")
	b.WriteString(label(fieldType, "Type:") + choice(fieldType, fm.types[fm.kind]) + "\n\n")
	b.WriteString(label(fieldLocation, "Location:") + fm.location.View() + "\n")
	if len(fm.locations) > 0 {
		b.WriteString(padRight("", 11) + styles.FaintText.Render(truncate(fmt.Sprintf("%d known, e.g. %s", len(fm.locations), fm.locations[0]), 36)) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(label(fieldLimit, "Limit:") + fm.limit.View() + "\n\n")

	if fm.err != "" {
		b.WriteString(styles.DangerText.Render(fm.err))
		b.WriteString("\n\n")
	}
	b.WriteString(styles.FaintText.Render("←/→: Choose  •  Enter: Apply  •  Esc: Cancel  •  Ctrl+C: Clear"))

	return placeModal(theme, width, height, b.String(), 56)
}

// filterSummary renders active filters compactly, empty when none are set.
func filterSummary(f equipment.Filters) string {
	var parts []string
	if f.Status != "" {
		parts = append(parts, "status="+f.Status)
	}
	if f.EquipmentType != "" {
		parts = append(parts, "type="+f.EquipmentType)
	}
	if f.Location != "" {
		parts = append(parts, "location="+f.Location)
	}
	if f.Limit > 0 {
		parts = append(parts, "limit="+strconv.Itoa(f.Limit))
	}
	if len(parts) == 0 {
		return ""
	}
	return "[" + strings.Join(parts, " ") + "]"
}
