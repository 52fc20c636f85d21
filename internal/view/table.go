package view

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Column describes one fixed-width table column.
type Column struct {
	Header string
	Width  int
	Right  bool
}

// truncate shortens s to at most width display cells, appending an
// ellipsis when it had to cut. Uses display width rather than byte or rune
// count so multi-byte output from a step's command does not misalign the
// table.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width-1, "") + "…"
}

// pad renders value in a field exactly width cells wide, truncating or
// padding as needed. value is measured as plain text; use renderStyledCell
// for values that already carry ANSI escapes.
func pad(value string, width int, right bool) string {
	plain := truncate(value, width)
	gap := width - runewidth.StringWidth(plain)
	if gap < 0 {
		gap = 0
	}
	padding := strings.Repeat(" ", gap)
	if right {
		return padding + plain
	}
	return plain + padding
}

// renderStyledCell pads a styled (already ANSI-colored) value whose visible
// width is plainWidth cells, to fill a column of the given width.
func renderStyledCell(styled string, plainWidth, width int) string {
	gap := width - plainWidth
	if gap < 0 {
		gap = 0
	}
	return styled + strings.Repeat(" ", gap)
}

// renderRow joins pre-padded cells with a single space, matching the
// table's header separator.
func renderRow(cells ...string) string {
	return strings.Join(cells, " ")
}

// formatStep renders a "current/total" progress indicator, e.g. "2/5".
func formatStep(current, total int) string {
	return fmt.Sprintf("%d/%d", current, total)
}
