package tui

import (
	"github.com/mithrel/peacecards/internal/cardfmt"
	"github.com/mithrel/peacecards/internal/render"
)

// Accordion tracks the open state of each section of one card, keyed by the
// section's position. Sections start collapsed. Flat documents have no
// sections and every operation on them is a no-op.
type Accordion struct {
	doc    cardfmt.Document
	open   []bool
	cursor int
}

func NewAccordion(doc cardfmt.Document) *Accordion {
	return &Accordion{doc: doc, open: make([]bool, len(doc.Sections()))}
}

// Len returns the number of sections.
func (a *Accordion) Len() int { return len(a.open) }

func (a *Accordion) Cursor() int { return a.cursor }

func (a *Accordion) IsOpen(i int) bool {
	return i >= 0 && i < len(a.open) && a.open[i]
}

// Toggle flips the section under the cursor.
func (a *Accordion) Toggle() {
	if len(a.open) == 0 {
		return
	}
	a.open[a.cursor] = !a.open[a.cursor]
}

func (a *Accordion) Next() {
	if a.cursor < len(a.open)-1 {
		a.cursor++
	}
}

func (a *Accordion) Prev() {
	if a.cursor > 0 {
		a.cursor--
	}
}

// SetAll opens or closes every section.
func (a *Accordion) SetAll(open bool) {
	for i := range a.open {
		a.open[i] = open
	}
}

// Render draws the card at width and returns the line of the cursor's
// section title, or -1 for flat cards.
func (a *Accordion) Render(width int) (string, int) {
	t := render.Terminal{
		Width:    width,
		Open:     a.IsOpen,
		Selected: func(i int) bool { return i == a.cursor },
	}
	out, offsets := t.Sections(a.doc)
	if len(offsets) == 0 {
		return out, -1
	}
	return out, offsets[a.cursor]
}
