package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// linesPerItem is the number of terminal lines each speaker occupies.
const linesPerItem = 2

// renderList renders the left panel: filtered speakers with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.visible) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No matching speakers")
	}

	var lines []string
	for i, s := range m.visible {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatSpeakerLine(s, width, i == m.cursor)...)
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatSpeakerLine formats a speaker as two lines:
//
//	line 1: [>] name
//	line 2:    N turns, first at TS (dimmed)
func formatSpeakerLine(s speakerItem, width int, selected bool) []string {
	name := s.name
	if nameMax := max(width-2, 0); runewidth.StringWidth(name) > nameMax {
		name = runewidth.Truncate(name, nameMax, "")
	}

	var line1 string
	if selected {
		line1 = styleListSelected.Render("> " + name)
	} else {
		line1 = "  " + styleListNormal.Render(name)
	}

	unit := "turns"
	if s.turns == 1 {
		unit = "turn"
	}
	detail := fmt.Sprintf("%d %s, first at %s", s.turns, unit, s.firstTS)
	if detailMax := max(width-4, 0); runewidth.StringWidth(detail) > detailMax {
		detail = runewidth.Truncate(detail, detailMax, "")
	}
	line2 := "    " + styleListDetail.Render(detail)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := max(listHeight/linesPerItem, 1)
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
