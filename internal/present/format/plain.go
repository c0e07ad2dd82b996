package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mithrel/peacecards/internal/cardfmt"
	"github.com/mithrel/peacecards/internal/render"
	"github.com/mithrel/peacecards/pkg/api"
)

const (
	deckHeader = "key\ttitle\tsubtitle\n"
	cardHeader = "id\ttitle\tcategory\tlayout\n"
)

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func WritePlainDecks(w io.Writer, decks []api.Deck, headers bool) error {
	tw := newTabWriter(w)
	if headers {
		_, _ = io.WriteString(tw, deckHeader)
	}
	for _, d := range decks {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", esc(d.Key), esc(d.Title), esc(d.Subtitle))
	}
	return tw.Flush()
}

// WritePlainCards lists cards with the layout each would render with.
func WritePlainCards(w io.Writer, cards []api.Card, headers bool) error {
	tw := newTabWriter(w)
	if headers {
		_, _ = io.WriteString(tw, cardHeader)
	}
	for _, c := range cards {
		layout := cardfmt.SelectLayout(cardfmt.Normalize(c.Content), cardfmt.Options{}).Layout
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			strconv.FormatInt(c.ID, 10), esc(c.Title), esc(c.Category), layout)
	}
	return tw.Flush()
}

// WritePlainCard writes the card title line followed by the plain document.
func WritePlainCard(w io.Writer, c api.Card, doc cardfmt.Document, headers bool) error {
	if headers {
		title := c.Title
		if c.Category != "" {
			title += " [" + c.Category + "]"
		}
		if _, err := fmt.Fprintf(w, "%s\n\n", title); err != nil {
			return err
		}
	}
	return render.Plain{}.Render(w, doc)
}
