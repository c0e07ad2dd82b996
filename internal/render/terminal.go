package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/peacecards/internal/cardfmt"
)

const (
	markerOpen   = "▾"
	markerClosed = "▸"
)

var (
	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("173"))
	primaryStyle  = headingStyle.Underline(true).Foreground(lipgloss.Color("209"))
	emphasisStyle = lipgloss.NewStyle().Bold(true)
	calloutStyle  = lipgloss.NewStyle().Italic(true).Border(lipgloss.ThickBorder(), false, false, false, true).BorderForeground(lipgloss.Color("108")).PaddingLeft(1)
	sectionStyle  = lipgloss.NewStyle().Bold(true)
	selectedStyle = sectionStyle.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
)

const sectionBodyPad = 2

// Terminal renders with lipgloss styles for an interactive terminal.
type Terminal struct {
	Width int
	// Open reports whether accordion section i is expanded. Nil expands all.
	Open func(i int) bool
	// Selected reports whether section i carries the cursor. Nil selects none.
	Selected func(i int) bool
}

func (t Terminal) Render(w io.Writer, doc cardfmt.Document) error {
	_, err := io.WriteString(w, t.String(doc))
	return err
}

// String returns the rendered document.
func (t Terminal) String(doc cardfmt.Document) string {
	out, _ := t.Sections(doc)
	return out
}

// Sections renders doc and reports the line offset of each section title.
func (t Terminal) Sections(doc cardfmt.Document) (string, []int) {
	var (
		lines   []string
		offsets []int
		count   int
	)
	add := func(s string) {
		lines = append(lines, s)
		count += strings.Count(s, "\n") + 1
	}
	section := 0
	for _, n := range doc.Nodes {
		if n.Kind != cardfmt.KindAccordionSection {
			add(t.block(n, t.Width))
			continue
		}
		open := t.Open == nil || t.Open(section)
		selected := t.Selected != nil && t.Selected(section)
		offsets = append(offsets, count)
		add(t.SectionTitle(n, open, selected))
		if open {
			for _, b := range n.Body {
				add(indent(t.block(b, t.Width-sectionBodyPad), sectionBodyPad))
			}
		}
		section++
	}
	return strings.Join(lines, "\n") + "\n", offsets
}

// SectionTitle renders the collapsible title row of an accordion section.
func (t Terminal) SectionTitle(n cardfmt.Node, open, selected bool) string {
	marker := markerClosed
	if open {
		marker = markerOpen
	}
	style := sectionStyle
	if selected {
		style = selectedStyle
	}
	return style.Render(marker + " " + n.DisplayTitle())
}

func (t Terminal) block(n cardfmt.Node, width int) string {
	switch n.Kind {
	case cardfmt.KindSpacing:
		return ""
	case cardfmt.KindHeading:
		if n.Tier == 1 {
			return wrap(primaryStyle, width).Render(n.Text)
		}
		return wrap(headingStyle, width).Render(n.Text)
	case cardfmt.KindListItem:
		return hanging("• ", wrap(lipgloss.NewStyle(), width-2).Render(styledRuns(n)))
	case cardfmt.KindCallout:
		return wrap(calloutStyle, width-2).Render(styledRuns(n))
	default:
		return wrap(lipgloss.NewStyle(), width).Render(styledRuns(n))
	}
}

func styledRuns(n cardfmt.Node) string {
	var b strings.Builder
	for _, r := range n.Runs {
		if r.Style == cardfmt.StyleEmphasis {
			b.WriteString(emphasisStyle.Render(r.Text))
			continue
		}
		b.WriteString(r.Text)
	}
	return b.String()
}

func wrap(s lipgloss.Style, width int) lipgloss.Style {
	if width <= 0 {
		return s
	}
	return s.Width(width)
}

// hanging prefixes the first line of s and aligns the rest under it.
func hanging(prefix, s string) string {
	pad := strings.Repeat(" ", lipgloss.Width(prefix))
	lines := strings.Split(s, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = prefix + lines[i]
			continue
		}
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}
