package cardfmt

// Kind identifies a renderable node.
type Kind string

const (
	KindSpacing          Kind = "spacing"
	KindHeading          Kind = "heading"
	KindParagraph        Kind = "paragraph"
	KindListItem         Kind = "listItem"
	KindCallout          Kind = "callout"
	KindAccordionSection Kind = "accordionSection"
)

// RunStyle tags an inline run.
type RunStyle string

const (
	StylePlain    RunStyle = "plain"
	StyleEmphasis RunStyle = "emphasis"
)

// Run is a contiguous span of a line with a single style.
type Run struct {
	Style RunStyle `json:"style" yaml:"style"`
	Text  string   `json:"text" yaml:"text"`
}

// Node is one element of a formatted card. Which fields are set depends on Kind:
// headings carry Tier and Text, block nodes carry Runs, accordion sections carry
// Title, Icon and Body.
//
// Markup marks runs that came from admin-authored section text and may hold
// embedded markup (links). Adapters that emit HTML write those runs unescaped.
// Sanitization is deferred while authorship stays admin-only.
type Node struct {
	Kind   Kind   `json:"kind" yaml:"kind"`
	Tier   int    `json:"tier,omitempty" yaml:"tier,omitempty"`
	Text   string `json:"text,omitempty" yaml:"text,omitempty"`
	Runs   []Run  `json:"runs,omitempty" yaml:"runs,omitempty"`
	Markup bool   `json:"markup,omitempty" yaml:"markup,omitempty"`
	Title  string `json:"title,omitempty" yaml:"title,omitempty"`
	Icon   string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Body   []Node `json:"body,omitempty" yaml:"body,omitempty"`
}

// PlainText joins the text of all runs, ignoring style.
func (n Node) PlainText() string {
	if n.Kind == KindHeading {
		return n.Text
	}
	s := ""
	for _, r := range n.Runs {
		s += r.Text
	}
	return s
}

// DisplayTitle is the section title prefixed with its icon, if any.
func (n Node) DisplayTitle() string {
	if n.Icon == "" {
		return n.Title
	}
	return n.Icon + " " + n.Title
}

// Layout is the per-card rendering shape.
type Layout string

const (
	LayoutFlat      Layout = "flat"
	LayoutAccordion Layout = "accordion"
)

// Document is the formatted tree for one card.
type Document struct {
	Layout Layout `json:"layout" yaml:"layout"`
	Reason Reason `json:"reason" yaml:"reason"`
	Nodes  []Node `json:"nodes" yaml:"nodes"`
}

// Intro returns the nodes preceding the first accordion section. For flat
// documents it returns nil.
func (d Document) Intro() []Node {
	if d.Layout != LayoutAccordion {
		return nil
	}
	for i, n := range d.Nodes {
		if n.Kind == KindAccordionSection {
			return d.Nodes[:i]
		}
	}
	return d.Nodes
}

// Sections returns the accordion section nodes in encounter order.
func (d Document) Sections() []Node {
	var out []Node
	for _, n := range d.Nodes {
		if n.Kind == KindAccordionSection {
			out = append(out, n)
		}
	}
	return out
}

func spacing() Node { return Node{Kind: KindSpacing} }
