package render

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mithrel/peacecards/internal/cardfmt"
)

// HTML writes an HTML fragment for web clients. Text is escaped except runs
// from nodes flagged Markup: those are admin-authored section text that may
// carry links and are parsed and emitted as markup without sanitization.
type HTML struct{}

func (HTML) Render(w io.Writer, doc cardfmt.Document) error {
	root := element(atom.Div, "card card-"+string(doc.Layout))
	appendBlocks(root, doc.Nodes)
	if err := html.Render(w, root); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// appendBlocks adds nodes to parent, grouping consecutive list items in one <ul>.
func appendBlocks(parent *html.Node, nodes []cardfmt.Node) {
	var list *html.Node
	for _, n := range nodes {
		if n.Kind != cardfmt.KindListItem {
			list = nil
		}
		switch n.Kind {
		case cardfmt.KindSpacing:
			parent.AppendChild(element(atom.Div, "spacing"))
		case cardfmt.KindHeading:
			a := atom.H3
			if n.Tier == 1 {
				a = atom.H2
			}
			h := element(a, "")
			h.AppendChild(text(n.Text))
			parent.AppendChild(h)
		case cardfmt.KindListItem:
			if list == nil {
				list = element(atom.Ul, "")
				parent.AppendChild(list)
			}
			li := element(atom.Li, "")
			appendRuns(li, n)
			list.AppendChild(li)
		case cardfmt.KindCallout:
			aside := element(atom.Aside, "callout")
			appendRuns(aside, n)
			parent.AppendChild(aside)
		case cardfmt.KindAccordionSection:
			details := element(atom.Details, "section")
			summary := element(atom.Summary, "")
			if n.Icon != "" {
				icon := element(atom.Span, "icon")
				icon.AppendChild(text(n.Icon))
				summary.AppendChild(icon)
				summary.AppendChild(text(" "))
			}
			summary.AppendChild(text(n.Title))
			details.AppendChild(summary)
			appendBlocks(details, n.Body)
			parent.AppendChild(details)
		default:
			p := element(atom.P, "")
			appendRuns(p, n)
			parent.AppendChild(p)
		}
	}
}

func appendRuns(parent *html.Node, n cardfmt.Node) {
	for _, r := range n.Runs {
		target := parent
		if r.Style == cardfmt.StyleEmphasis {
			target = element(atom.Strong, "")
			parent.AppendChild(target)
		}
		if !n.Markup {
			target.AppendChild(text(r.Text))
			continue
		}
		for _, c := range parseMarkup(r.Text, target) {
			target.AppendChild(c)
		}
	}
}

// parseMarkup parses trusted fragment text in the context of parent. A parse
// failure falls back to the escaped text.
func parseMarkup(s string, parent *html.Node) []*html.Node {
	ctx := &html.Node{Type: html.ElementNode, Data: parent.Data, DataAtom: parent.DataAtom}
	nodes, err := html.ParseFragment(strings.NewReader(s), ctx)
	if err != nil {
		return []*html.Node{text(s)}
	}
	return nodes
}

func element(a atom.Atom, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
