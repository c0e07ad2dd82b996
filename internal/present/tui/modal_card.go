package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/mithrel/peacecards/internal/cardfmt"
	"github.com/mithrel/peacecards/pkg/api"
)

// cardModal is a foreground box showing one card's accordion over the deck
// table.
type cardModal struct {
	view   *cardView
	width  int
	height int
	padX   int
	padY   int
	box    lipglossv2.Style
	pos    string // "i/n" place in the deck, empty when unknown
}

func newCardModal(c api.Card, termW, termH int) *cardModal {
	doc := cardfmt.Format(c.Content, cardfmt.Options{})
	m := &cardModal{padX: 2, padY: 1}
	m.view = newCardView(c, doc, 10, 5)
	m.resizeForTerm(termW, termH)
	return m
}

func (m *cardModal) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	// 70% width, or nearly full width on narrow terminals
	w := int(float64(termW) * 0.7)
	if termW < 80 {
		w = termW - 4
	}
	if w < 40 {
		w = max(32, termW-2)
	}
	h := int(float64(termH) * 0.8)
	if termH < 20 {
		h = termH - 2
	}
	if h < 10 {
		h = max(8, termH-1)
	}
	m.width, m.height = w, h
	m.box = lipglossv2.NewStyle().
		Width(w).
		Height(h).
		Padding(m.padY, m.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))

	innerW := max(10, w-2-m.padX*2)
	// one line for the title, one for the gap under it
	innerH := max(3, h-2-m.padY*2-2)
	m.view.setSize(innerW, innerH)
}

func (m *cardModal) update(msg tea.Msg) tea.Cmd {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.resizeForTerm(x.Width, x.Height)
	case tea.KeyMsg:
		return m.view.update(x)
	}
	return nil
}

func (m *cardModal) View() string {
	title := titleStyle.Render(m.view.card.Title)
	if m.pos != "" {
		title += "  " + metaStyle.Render(m.pos)
	}
	return m.box.Render(title + "\n\n" + m.view.View())
}
