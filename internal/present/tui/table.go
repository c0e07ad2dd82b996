package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/peacecards/internal/cardfmt"
	"github.com/mithrel/peacecards/pkg/api"
)

// RunDeck opens an interactive table of a deck's cards. Enter opens the card
// in a modal accordion viewer.
func RunDeck(ctx context.Context, deck api.Deck, cards []api.Card, headers bool) error {
	m := newModel(deck, cards, headers)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Fixed column widths. The table pads each cell by one column on either side,
// so the layout column fits "accordion" plus padding.
const (
	idColW     = 6
	layoutColW = 12
)

type model struct {
	deck    api.Deck
	cards   []api.Card
	table   table.Model
	modal   *cardModal
	open    int // index in cards of the card shown in modal
	help    help.Model
	keys    browseKeys
	view    keyMap
	headers bool
	width   int
	height  int
}

func newModel(deck api.Deck, cards []api.Card, headers bool) model {
	m := model{deck: deck, cards: cards, headers: headers, help: help.New(), keys: defaultBrowseKeys(), view: defaultKeys()}
	m.initTable()
	return m
}

func (m *model) initTable() {
	cols := m.columnsFor(idColW, 40, 20, layoutColW)
	m.table = table.New(table.WithColumns(cols), table.WithFocused(true))
	m.updateRows()
	m.applyStyles()
}

func (m *model) updateRows() {
	rows := make([]table.Row, 0, len(m.cards))
	for _, c := range m.cards {
		layout := cardfmt.SelectLayout(cardfmt.Normalize(c.Content), cardfmt.Options{}).Layout
		rows = append(rows, table.Row{
			strconv.FormatInt(c.ID, 10),
			c.Title,
			c.Category,
			string(layout),
		})
	}
	m.table.SetRows(rows)
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.applyLayout()
		if m.modal != nil {
			m.modal.resizeForTerm(msg.Width, msg.Height)
		}
		return m, nil
	case tea.KeyMsg:
		if m.modal != nil {
			switch {
			case msg.String() == "ctrl+c":
				return m, tea.Quit
			case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
				m.modal = nil
				return m, nil
			case key.Matches(msg, m.keys.NextCard):
				m.openCard(m.open + 1)
				return m, nil
			case key.Matches(msg, m.keys.PrevCard):
				m.openCard(m.open - 1)
				return m, nil
			}
			return m, m.modal.update(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Open):
			m.openCard(m.table.Cursor())
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// openCard shows cards[idx] in the modal and moves the table cursor to it.
// Out-of-range indexes leave the current state alone.
func (m *model) openCard(idx int) {
	if idx < 0 || idx >= len(m.cards) {
		return
	}
	m.open = idx
	m.table.SetCursor(idx)
	m.modal = newCardModal(m.cards[idx], m.width, m.height)
	m.modal.pos = fmt.Sprintf("%d/%d", idx+1, len(m.cards))
}

func (m model) renderFooter() string {
	var left string
	if m.modal != nil {
		left = m.help.View(modalHelp{browse: m.keys, view: m.view})
	} else {
		left = m.help.View(m.keys)
	}
	right := fmt.Sprintf("%s • %d cards ", m.deck.Title, len(m.cards))

	width := m.table.Width()
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		space = 1
	}
	return left + strings.Repeat(" ", space) + right
}

func (m model) View() string {
	if len(m.cards) == 0 {
		return "(no cards)\n"
	}
	base := m.table.View() + "\n" + m.renderFooter() + "\n"
	if m.modal == nil {
		return base
	}
	return placeModal(base, m.modal, m.width, m.height)
}

func (m *model) applyLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.table.SetHeight(max(6, m.height-1))
	m.table.SetWidth(m.width)
	// each of the four cells carries one column of padding on either side
	avail := m.width - 8
	if avail < 40 {
		return
	}
	rem := max(20, avail-idColW-layoutColW)
	categoryW := max(8, rem/3)
	titleW := max(8, rem-categoryW)
	m.table.SetColumns(m.columnsFor(idColW, titleW, categoryW, layoutColW))
}

func (m *model) applyStyles() {
	s := table.DefaultStyles()
	if m.headers {
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
	} else {
		s.Header = s.Header.
			BorderBottom(false).
			Bold(false)
	}
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	m.table.SetStyles(s)
}

// columnsFor returns columns with or without titles based on the headers flag.
func (m *model) columnsFor(idW, titleW, categoryW, layoutW int) []table.Column {
	cols := []table.Column{
		{Title: "ID", Width: idW},
		{Title: "Title", Width: titleW},
		{Title: "Category", Width: categoryW},
		{Title: "Layout", Width: layoutW},
	}
	if !m.headers {
		for i := range cols {
			cols[i].Title = ""
		}
	}
	return cols
}
