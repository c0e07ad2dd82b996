package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Toggle   key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Scroll   key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next:     key.NewBinding(key.WithKeys("j", "down", "tab"), key.WithHelp("j/↓", "next section")),
		Prev:     key.NewBinding(key.WithKeys("k", "up", "shift+tab"), key.WithHelp("k/↑", "prev section")),
		Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "toggle")),
		Expand:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand all")),
		Collapse: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collapse all")),
		Scroll:   key.NewBinding(key.WithKeys("pgdown", "pgup", "ctrl+d", "ctrl+u"), key.WithHelp("pgup/pgdn", "scroll")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Toggle, k.Expand, k.Collapse, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Toggle},
		{k.Expand, k.Collapse, k.Scroll},
		{k.Back, k.Help, k.Quit},
	}
}

// browseKeys are the deck table bindings. NextCard and PrevCard step the open
// modal through the deck.
type browseKeys struct {
	Down     key.Binding
	Up       key.Binding
	Open     key.Binding
	NextCard key.Binding
	PrevCard key.Binding
	Back     key.Binding
	Quit     key.Binding
}

func defaultBrowseKeys() browseKeys {
	return browseKeys{
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next card")),
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "prev card")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open card")),
		NextCard: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next card")),
		PrevCard: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev card")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k browseKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Open, k.Quit}
}

func (k browseKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// modalHelp is the short help shown under an open card.
type modalHelp struct {
	browse browseKeys
	view   keyMap
}

func (k modalHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.view.Next, k.view.Toggle, k.browse.NextCard, k.browse.PrevCard, k.browse.Back}
}

func (k modalHelp) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
