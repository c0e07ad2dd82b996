package render

import (
	"bufio"
	"io"
	"strings"

	"github.com/mithrel/peacecards/internal/cardfmt"
)

// Plain writes undecorated text: headings underlined, bullets as "- ",
// accordion sections as "[Title]" blocks with an indented body.
type Plain struct{}

func (Plain) Render(w io.Writer, doc cardfmt.Document) error {
	bw := bufio.NewWriter(w)
	for _, n := range doc.Nodes {
		writePlainNode(bw, n, "")
	}
	return bw.Flush()
}

func writePlainNode(w *bufio.Writer, n cardfmt.Node, indent string) {
	switch n.Kind {
	case cardfmt.KindSpacing:
		w.WriteString("\n")
	case cardfmt.KindHeading:
		rule := "-"
		if n.Tier == 1 {
			rule = "="
		}
		w.WriteString(indent + n.Text + "\n")
		w.WriteString(indent + strings.Repeat(rule, len([]rune(n.Text))) + "\n")
	case cardfmt.KindListItem:
		w.WriteString(indent + "- " + n.PlainText() + "\n")
	case cardfmt.KindCallout:
		w.WriteString(indent + "| " + n.PlainText() + "\n")
	case cardfmt.KindAccordionSection:
		w.WriteString(indent + "[" + n.DisplayTitle() + "]\n")
		for _, b := range n.Body {
			writePlainNode(w, b, indent+"  ")
		}
	default:
		w.WriteString(indent + n.PlainText() + "\n")
	}
}
