package format

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/mithrel/peacecards/internal/cardfmt"
	"github.com/mithrel/peacecards/internal/render"
	"github.com/mithrel/peacecards/pkg/api"
)

// WriteHTMLCard wraps the HTML fragment of a card in an article element.
func WriteHTMLCard(w io.Writer, c api.Card, doc cardfmt.Document) error {
	var body strings.Builder
	if err := (render.HTML{}).Render(&body, doc); err != nil {
		return err
	}
	return WriteHTMLFragment(w, c, body.String())
}

// WriteHTMLFragment wraps an already rendered card body under the card title.
func WriteHTMLFragment(w io.Writer, c api.Card, body string) error {
	_, err := io.WriteString(w, `<article class="card"><h1>`+html.EscapeString(c.Title)+"</h1>\n"+body+"</article>\n")
	return err
}
