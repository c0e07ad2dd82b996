package tui

import (
	"github.com/charmbracelet/lipgloss/v2"
)

const (
	fallbackCols = 80
	fallbackRows = 24
)

// placeModal dims the deck table and draws the card modal centered over it.
// A zero terminal size falls back to 80x24.
func placeModal(table string, m *cardModal, cols, rows int) string {
	if cols <= 0 {
		cols = fallbackCols
	}
	if rows <= 0 {
		rows = fallbackRows
	}
	left := max(0, (cols-m.width)/2)
	top := max(0, (rows-m.height)/2)

	dimmed := lipgloss.NewLayer(lipgloss.NewStyle().Faint(true).Render(table)).
		Width(cols).
		Height(rows)
	card := lipgloss.NewLayer(m.View()).
		Width(m.width).
		Height(m.height).
		X(left).
		Y(top)
	return lipgloss.NewCanvas(dimmed, card).Render()
}
