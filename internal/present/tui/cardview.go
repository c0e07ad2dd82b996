package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/peacecards/internal/cardfmt"
	"github.com/mithrel/peacecards/pkg/api"
)

// cardView is a scrollable accordion for one card, shared by the full-screen
// viewer and the deck browser modal.
type cardView struct {
	card api.Card
	acc  *Accordion
	vp   viewport.Model
	keys keyMap
}

func newCardView(c api.Card, doc cardfmt.Document, w, h int) *cardView {
	v := &cardView{card: c, acc: NewAccordion(doc), keys: defaultKeys(), vp: viewport.New(w, h)}
	v.refresh()
	return v
}

func (v *cardView) setSize(w, h int) {
	v.vp.Width = w
	v.vp.Height = h
	v.refresh()
}

// refresh redraws the card and scrolls the cursor's section into view.
func (v *cardView) refresh() {
	content, line := v.acc.Render(v.vp.Width)
	v.vp.SetContent(content)
	if line < 0 || v.vp.Height <= 0 {
		return
	}
	switch {
	case line < v.vp.YOffset:
		v.vp.SetYOffset(line)
	case line >= v.vp.YOffset+v.vp.Height:
		v.vp.SetYOffset(line - v.vp.Height + 1)
	}
}

func (v *cardView) update(msg tea.KeyMsg) tea.Cmd {
	if v.acc.Len() == 0 {
		var cmd tea.Cmd
		v.vp, cmd = v.vp.Update(msg)
		return cmd
	}
	switch {
	case key.Matches(msg, v.keys.Next):
		v.acc.Next()
	case key.Matches(msg, v.keys.Prev):
		v.acc.Prev()
	case key.Matches(msg, v.keys.Toggle):
		v.acc.Toggle()
	case key.Matches(msg, v.keys.Expand):
		v.acc.SetAll(true)
	case key.Matches(msg, v.keys.Collapse):
		v.acc.SetAll(false)
	default:
		var cmd tea.Cmd
		v.vp, cmd = v.vp.Update(msg)
		return cmd
	}
	v.refresh()
	return nil
}

func (v *cardView) View() string { return v.vp.View() }
