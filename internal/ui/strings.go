package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Widths below are terminal cells, not runes: names and locations are often
// Japanese, which occupy two cells per character.

// truncate shortens a string to the given cell width, adding an ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= limit {
		return value
	}
	if limit <= 3 {
		return runewidth.Truncate(value, limit, "")
	}
	return runewidth.Truncate(value, limit, "...")
}

// padRight pads a string with spaces to the given cell width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.FillRight(s, width)
}

// fit truncates then pads so the result is exactly width cells.
func fit(s string, width int) string {
	return padRight(truncate(s, width), width)
}

// cellWidth returns the display width of s.
func cellWidth(s string) int {
	return runewidth.StringWidth(s)
}

// formatEfficiency renders an efficiency percentage with one decimal.
func formatEfficiency(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// formatAverage renders an optional average efficiency, n/a when unset.
func formatAverage(avg float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return formatEfficiency(avg)
}

// formatHours renders an hour count with thousands separators.
func formatHours(hours int) string {
	sign := ""
	if hours < 0 {
		sign = "-"
		hours = -hours
	}
	digits := fmt.Sprintf("%d", hours)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "h"
}

// ternary returns a if cond is true, otherwise b.
func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
