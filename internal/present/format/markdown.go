package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/mithrel/peacecards/internal/cardfmt"
	"github.com/mithrel/peacecards/internal/render"
	"github.com/mithrel/peacecards/pkg/api"
)

// WritePrettyCard renders a card with a metadata header through glamour.
func WritePrettyCard(w io.Writer, c api.Card, doc cardfmt.Document, style string, width int) error {
	meta := "**Deck:** " + c.DeckKey
	if c.Category != "" {
		meta += " | **Category:** " + c.Category
	}
	md := fmt.Sprintf("# %s\n\n> %s\n\n---\n\n%s", c.Title, meta, render.ToMarkdown(doc))
	out, err := render.Glamour(md, style, width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// WritePrettyDecks renders decks as a Markdown table through glamour.
func WritePrettyDecks(w io.Writer, decks []api.Deck, style string, width int) error {
	var b strings.Builder
	b.WriteString("| Key | Title | Subtitle |\n|---|---|---|\n")
	for _, d := range decks {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(d.Key), cell(d.Title), cell(d.Subtitle))
	}
	out, err := render.Glamour(b.String(), style, width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// WritePrettyCards renders one deck's cards as a Markdown table.
func WritePrettyCards(w io.Writer, deck api.Deck, cards []api.Card, style string, width int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", deck.Title)
	if deck.Subtitle != "" {
		fmt.Fprintf(&b, "> %s\n\n", deck.Subtitle)
	}
	b.WriteString("| ID | Title | Category |\n|---|---|---|\n")
	for _, c := range cards {
		fmt.Fprintf(&b, "| %d | %s | %s |\n", c.ID, cell(c.Title), cell(c.Category))
	}
	out, err := render.Glamour(b.String(), style, width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
