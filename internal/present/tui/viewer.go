package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/peacecards/internal/cardfmt"
	"github.com/mithrel/peacecards/pkg/api"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("209"))
	metaStyle  = lipgloss.NewStyle().Faint(true)
)

// headerLines is the height of the viewer's title block.
const headerLines = 3

// RunCard opens a full-screen accordion viewer for one card.
func RunCard(ctx context.Context, c api.Card, doc cardfmt.Document) error {
	p := tea.NewProgram(newViewer(c, doc), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

type viewer struct {
	view   *cardView
	help   help.Model
	keys   keyMap
	width  int
	height int
}

func newViewer(c api.Card, doc cardfmt.Document) viewer {
	return viewer{
		view: newCardView(c, doc, 80, 20),
		help: help.New(),
		keys: defaultKeys(),
	}
}

func (m viewer) Init() tea.Cmd { return nil }

func (m viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.layout()
			return m, nil
		}
		return m, m.view.update(msg)
	}
	return m, nil
}

func (m viewer) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	footer := lipgloss.Height(m.help.View(m.keys))
	m.view.setSize(m.width, max(3, m.height-headerLines-footer))
}

func (m viewer) header() string {
	c := m.view.card
	meta := c.DeckKey
	if c.Category != "" {
		meta += " · " + c.Category
	}
	return titleStyle.Render(c.Title) + "\n" + metaStyle.Render(meta) + "\n"
}

func (m viewer) View() string {
	return m.header() + "\n" + m.view.View() + "\n" + m.help.View(m.keys)
}
