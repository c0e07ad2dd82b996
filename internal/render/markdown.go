package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/mithrel/peacecards/internal/cardfmt"
)

// Markdown regenerates Markdown from the document. Each block is its own
// paragraph so single-line card breaks survive Markdown reflow.
type Markdown struct{}

func (Markdown) Render(w io.Writer, doc cardfmt.Document) error {
	_, err := io.WriteString(w, ToMarkdown(doc))
	return err
}

// ToMarkdown returns the Markdown text for doc.
func ToMarkdown(doc cardfmt.Document) string {
	var b strings.Builder
	for _, n := range doc.Nodes {
		writeMarkdownNode(&b, n)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeMarkdownNode(b *strings.Builder, n cardfmt.Node) {
	switch n.Kind {
	case cardfmt.KindSpacing:
		return
	case cardfmt.KindHeading:
		b.WriteString(strings.Repeat("#", n.Tier+1) + " " + mdHeadingText(n.Text) + "\n\n")
	case cardfmt.KindListItem:
		b.WriteString("- " + mdLineStart(mdRuns(n)) + "\n\n")
	case cardfmt.KindCallout:
		b.WriteString("> *" + strings.TrimSpace(mdRuns(n)) + "*\n\n")
	case cardfmt.KindAccordionSection:
		b.WriteString("#### " + mdHeadingText(n.DisplayTitle()) + "\n\n")
		for _, c := range n.Body {
			writeMarkdownNode(b, c)
		}
	default:
		b.WriteString(mdLineStart(mdRuns(n)) + "\n\n")
	}
}

// mdRuns writes runs as inline Markdown. Emphasis markers hug the run text;
// surrounding whitespace stays outside them so the delimiters still flank.
func mdRuns(n cardfmt.Node) string {
	var b strings.Builder
	for _, r := range n.Runs {
		if r.Style != cardfmt.StyleEmphasis {
			b.WriteString(mdEscape(r.Text, n.Markup))
			continue
		}
		inner := strings.TrimSpace(r.Text)
		if inner == "" {
			b.WriteString(r.Text)
			continue
		}
		start := strings.Index(r.Text, inner)
		b.WriteString(r.Text[:start])
		b.WriteString("**" + mdEscape(inner, n.Markup) + "**")
		b.WriteString(r.Text[start+len(inner):])
	}
	return b.String()
}

var mdPunct = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
)

// mdEscape escapes inline Markdown punctuation. With skipTags set, text inside
// angle-bracket tags is left alone so authored HTML passes through.
func mdEscape(s string, skipTags bool) string {
	if !skipTags {
		return mdPunct.Replace(s)
	}
	var b strings.Builder
	for s != "" {
		open := strings.IndexByte(s, '<')
		if open < 0 {
			b.WriteString(mdPunct.Replace(s))
			break
		}
		end := strings.IndexByte(s[open:], '>')
		if end < 0 {
			b.WriteString(mdPunct.Replace(s))
			break
		}
		b.WriteString(mdPunct.Replace(s[:open]))
		b.WriteString(s[open : open+end+1])
		s = s[open+end+1:]
	}
	return b.String()
}

var orderedMarker = regexp.MustCompile(`^(\d+)([.)])`)

// mdLineStart escapes a leading block marker so a paragraph stays a paragraph.
func mdLineStart(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '#', '>', '+', '-', '=':
		return `\` + s
	}
	return orderedMarker.ReplaceAllString(s, `$1\$2`)
}

// mdHeadingText escapes heading text. A trailing '#' is escaped too, since ATX
// headings drop it as a closing sequence.
func mdHeadingText(s string) string {
	s = mdEscape(s, false)
	if strings.HasSuffix(s, "#") {
		s = s[:len(s)-1] + `\#`
	}
	return s
}

// Pretty renders the Markdown form through glamour for terminals.
type Pretty struct {
	Style string // glamour standard style, or "auto"/"" for detection
	Width int    // word wrap; 0 means 80
}

func (p Pretty) Render(w io.Writer, doc cardfmt.Document) error {
	out, err := Glamour(ToMarkdown(doc), p.Style, p.Width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Glamour renders Markdown for a terminal. An empty or "auto" style detects
// the background; width 0 wraps at 80 columns.
func Glamour(md, style string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
