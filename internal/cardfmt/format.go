// Package cardfmt turns card content into a typed document tree.
//
// Card text is lightly structured: **bold** runs, "- " bullets, "Example:"
// callouts, and emoji-prefixed bold headers that split a card into
// collapsible sections. Format classifies each card once as flat or accordion
// and builds the matching tree; client surfaces render that tree through
// their own adapters. Every function here is pure and safe for concurrent use.
package cardfmt

import "strings"

// Format builds the document for one card.
func Format(content string, opts Options) Document {
	content = Normalize(content)
	c := SelectLayout(content, opts)
	if c.Layout == LayoutAccordion {
		return Document{Layout: LayoutAccordion, Reason: c.Reason, Nodes: accordionNodes(content)}
	}
	return Document{Layout: LayoutFlat, Reason: c.Reason, Nodes: flatNodes(content)}
}

func flatNodes(content string) []Node {
	lines := strings.Split(content, "\n")
	out := make([]Node, 0, len(lines))
	for _, line := range lines {
		out = append(out, FormatLine(line))
	}
	return out
}

func accordionNodes(content string) []Node {
	intro, sections := Split(content)
	out := make([]Node, 0, len(intro)+len(sections))
	for _, line := range intro {
		out = append(out, FormatBodyLine(line))
	}
	for _, s := range sections {
		body := make([]Node, 0, len(s.BodyLines))
		for _, line := range s.BodyLines {
			body = append(body, FormatBodyLine(line))
		}
		out = append(out, Node{
			Kind:  KindAccordionSection,
			Title: s.Title,
			Icon:  s.Icon,
			Body:  body,
		})
	}
	return out
}
