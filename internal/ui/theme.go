package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/linewatch/internal/equipment"
)

// Theme defines colors and styles for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Header and command bar
	SurfaceAlt string // Unfocused panes
	FocusBg    string // Focused pane

	// Table colors
	SelectionBg   string
	SelectionText string

	// Border colors
	Border      string
	BorderFocus string

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// StatusColors maps a lowercased equipment status to its badge color.
	StatusColors map[string]string
}

// StatusColor returns the badge color for an equipment status, Muted when unknown.
func (t Theme) StatusColor(status equipment.Status) string {
	if color, ok := t.StatusColors[strings.ToLower(strings.TrimSpace(string(status)))]; ok {
		return color
	}
	return t.Muted
}

// EfficiencyColor grades an efficiency percentage.
func (t Theme) EfficiencyColor(efficiency float64) string {
	switch {
	case efficiency >= 95:
		return t.Success
	case efficiency >= 85:
		return t.Warning
	default:
		return t.Danger
	}
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	surface := lipgloss.Color(t.Surface)
	return Styles{
		Background:  lipgloss.NewStyle().Background(lipgloss.Color(t.Background)),
		Surface:     fg(t.Text).Background(surface),
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),
		Header:      fg(t.Text).Background(surface).Padding(0, 1),
		Logo:        fg(t.Info).Bold(true),
		Selected:    fg(t.SelectionText).Background(lipgloss.Color(t.SelectionBg)),
		theme:       t,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Background lipgloss.Style
	Surface    lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style

	theme Theme
}

// StatusStyle returns a badge style for the given equipment status.
func (s Styles) StatusStyle(status equipment.Status) lipgloss.Style {
	return fg(s.theme.Background).
		Background(lipgloss.Color(s.theme.StatusColor(status))).
		Padding(0, 1)
}

// BadgeStyle returns a bold badge filled with color.
func (s Styles) BadgeStyle(color string) lipgloss.Style {
	return s.StatusStyle("").Background(lipgloss.Color(color)).Bold(true)
}

// WithBackground returns a copy of s whose text styles paint bgColor instead of
// inheriting the terminal background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	for _, st := range []*lipgloss.Style{
		&out.Background, &out.Surface, &out.Text, &out.MutedText, &out.FaintText,
		&out.AccentText, &out.SuccessText, &out.WarningText, &out.DangerText,
		&out.InfoText, &out.Header, &out.Logo,
	} {
		*st = st.Background(bg)
	}
	return out
}

// GetTheme returns a theme by name, the first theme when unknown.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// NextTheme returns the theme after current, wrapping around.
func NextTheme(current string) string {
	for i, t := range themes {
		if t.Name == current {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}

// ThemeNames returns available theme names in cycle order.
func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

func statusColors(active, maintenance, inactive string) map[string]string {
	return map[string]string{"active": active, "maintenance": maintenance, "inactive": inactive}
}

// themes lists palettes in cycle order. Colors come from nightfox.nvim,
// kanagawa.nvim and the Tailwind slate/sky scale.
var themes = []Theme{
	{
		Name:       "Nightfox",
		Background: "#131a24", Surface: "#192330", SurfaceAlt: "#212e3f", FocusBg: "#29394f",
		SelectionBg: "#2b3b51", SelectionText: "#cdcecf",
		Border: "#39506d", BorderFocus: "#719cd6",
		Text: "#cdcecf", Muted: "#738091", Faint: "#71839b", Accent: "#719cd6",
		Success: "#81b29a", Warning: "#dbc074", Danger: "#c94f6d", Info: "#63cdcf",
		StatusColors: statusColors("#81b29a", "#f4a261", "#c94f6d"),
	},
	{
		Name:       "Kanagawa",
		Background: "#16161D", Surface: "#1F1F28", SurfaceAlt: "#2A2A37", FocusBg: "#2A2A37",
		SelectionBg: "#2D4F67", SelectionText: "#DCD7BA",
		Border: "#54546D", BorderFocus: "#7E9CD8",
		Text: "#DCD7BA", Muted: "#C8C093", Faint: "#727169", Accent: "#7E9CD8",
		Success: "#98BB6C", Warning: "#E6C384", Danger: "#E46876", Info: "#7FB4CA",
		StatusColors: statusColors("#98BB6C", "#FFA066", "#E46876"),
	},
	{
		Name:       "Slate",
		Background: "#020617", Surface: "#0f172a", SurfaceAlt: "#1e293b", FocusBg: "#283548",
		SelectionBg: "#0284c7", SelectionText: "#f8fafc",
		Border: "#334155", BorderFocus: "#38bdf8",
		Text: "#f1f5f9", Muted: "#94a3b8", Faint: "#64748b", Accent: "#38bdf8",
		Success: "#22c55e", Warning: "#f59e0b", Danger: "#ef4444", Info: "#06b6d4",
		StatusColors: statusColors("#16a34a", "#f59e0b", "#dc2626"),
	},
	{
		// high-contrast palette for shop-floor displays
		Name:       "Floor",
		Background: "#000000", Surface: "#111111", SurfaceAlt: "#1c1c1c", FocusBg: "#262626",
		SelectionBg: "#fde047", SelectionText: "#000000",
		Border: "#525252", BorderFocus: "#fde047",
		Text: "#ffffff", Muted: "#a3a3a3", Faint: "#737373", Accent: "#fde047",
		Success: "#4ade80", Warning: "#fb923c", Danger: "#f87171", Info: "#67e8f9",
		StatusColors: statusColors("#4ade80", "#fb923c", "#f87171"),
	},
}
