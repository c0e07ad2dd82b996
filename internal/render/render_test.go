package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/peacecards/internal/cardfmt"
)

const (
	flatCard      = "**Core Influences:**\n- one **two**\nExample: try\n\nplain **bold** end"
	accordionCard = "Lead in\n🌟 **Affirmation**\nBody <a href=\"/x\">link</a>\n\n🙏 **Unite**\nHold **hands**"
)

func render(t *testing.T, r Renderer, content string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, cardfmt.Format(content, cardfmt.Options{})))
	return buf.String()
}

func TestPlain(t *testing.T) {
	assert.Equal(t,
		"Core Influences:\n================\n- one two\n| Example: try\n\nplain bold end\n",
		render(t, Plain{}, flatCard))

	assert.Equal(t,
		"Lead in\n[🌟 Affirmation]\n  Body <a href=\"/x\">link</a>\n\n[🙏 Unite]\n  Hold hands\n",
		render(t, Plain{}, accordionCard))
}

func TestMarkdown(t *testing.T) {
	assert.Equal(t,
		"## Core Influences:\n\n- one **two**\n\n> *Example: try*\n\nplain **bold** end\n",
		render(t, Markdown{}, flatCard))

	out := render(t, Markdown{}, accordionCard)
	assert.Contains(t, out, "#### 🌟 Affirmation\n\nBody <a href=\"/x\">link</a>\n\n")
	assert.Contains(t, out, "#### 🙏 Unite\n\nHold **hands**\n")
	assert.True(t, strings.HasPrefix(out, "Lead in\n\n"))
}

func TestMarkdownEscapesLiteralPunctuation(t *testing.T) {
	assert.Equal(t,
		"## Title\n\nSome \\*plain\\* line\n",
		render(t, Markdown{}, "**Title**\nSome *plain* line"))
	assert.Equal(t,
		"snake\\_case and \\`tick\\` \\[x](y) a\\\\b\n",
		render(t, Markdown{}, "snake_case and `tick` [x](y) a\\b"))
	assert.Equal(t, "\\# not a heading\n", render(t, Markdown{}, "# not a heading"))
	assert.Equal(t, "1\\. not a list\n", render(t, Markdown{}, "1. not a list"))
	assert.Equal(t, "\\+ not a list\n", render(t, Markdown{}, "+ not a list"))
}

func TestMarkdownEmphasisKeepsWhitespaceOutside(t *testing.T) {
	assert.Equal(t, "a  **spaced**  b\n", render(t, Markdown{}, "a ** spaced ** b"))
	assert.Equal(t, "**lead** tail\n", render(t, Markdown{}, "**lead **tail"))
}

func TestPrettyLiteralAsterisksStayLiteral(t *testing.T) {
	out := ansi.Strip(render(t, Pretty{Style: "dark", Width: 60}, "**Title**\nSome *plain* line"))
	assert.Contains(t, out, "*plain*")

	out = ansi.Strip(render(t, Pretty{Style: "dark", Width: 60}, "a ** spaced ** b"))
	assert.NotContains(t, out, "**")
	assert.Contains(t, out, "spaced")
}

func TestHTMLFlat(t *testing.T) {
	out := render(t, HTML{}, "**Title**\n- a\n- **b**\nx < y & \"z\"\nExample: go")
	assert.Equal(t,
		`<div class="card card-flat"><h3>Title</h3><ul><li>a</li><li><strong>b</strong></li></ul>`+
			`<p>x &lt; y &amp; &#34;z&#34;</p><aside class="callout">Example: go</aside></div>`+"\n",
		out)
}

func TestHTMLFlatEscapesMarkup(t *testing.T) {
	out := render(t, HTML{}, "<script>alert(1)</script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<script>")
}

func TestHTMLAccordionPassesTrustedMarkup(t *testing.T) {
	out := render(t, HTML{}, accordionCard)
	assert.Equal(t,
		`<div class="card card-accordion"><p>Lead in</p>`+
			`<details class="section"><summary><span class="icon">🌟</span> Affirmation</summary>`+
			`<p>Body <a href="/x">link</a></p><div class="spacing"></div></details>`+
			`<details class="section"><summary><span class="icon">🙏</span> Unite</summary>`+
			`<p>Hold <strong>hands</strong></p></details></div>`+"\n",
		out)
}

func TestHTMLHeadingTiers(t *testing.T) {
	out := render(t, HTML{}, "**Core Influences:**\n**Other**")
	assert.Contains(t, out, "<h2>Core Influences:</h2><h3>Other</h3>")
}

func TestTerminalAccordionState(t *testing.T) {
	doc := cardfmt.Format(accordionCard, cardfmt.Options{})

	expanded := Terminal{}.String(doc)
	assert.Contains(t, expanded, "▾ 🌟 Affirmation")
	assert.Contains(t, expanded, "Hold")

	collapsed := Terminal{Open: func(int) bool { return false }}.String(doc)
	assert.Contains(t, collapsed, "▸ 🌟 Affirmation")
	assert.Contains(t, collapsed, "▸ 🙏 Unite")
	assert.NotContains(t, collapsed, "Hold")
	assert.Contains(t, collapsed, "Lead in")

	onlySecond := Terminal{Open: func(i int) bool { return i == 1 }}.String(doc)
	assert.NotContains(t, onlySecond, "link")
	assert.Contains(t, onlySecond, "hands")
}

func TestTerminalSectionOffsets(t *testing.T) {
	doc := cardfmt.Format(accordionCard, cardfmt.Options{})

	_, offsets := Terminal{Open: func(int) bool { return false }}.Sections(doc)
	assert.Equal(t, []int{1, 2}, offsets)

	out, offsets := Terminal{}.Sections(doc)
	assert.Equal(t, []int{1, 4}, offsets)
	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[4], "Unite")
}

func TestTerminalFlat(t *testing.T) {
	out := Terminal{Width: 40}.String(cardfmt.Format(flatCard, cardfmt.Options{}))
	assert.Contains(t, out, "Core Influences:")
	assert.Contains(t, out, "• one")
	assert.Contains(t, out, "Example: try")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 40, line)
	}
}

func TestTerminalEmptyListItem(t *testing.T) {
	assert.NotPanics(t, func() {
		Terminal{}.String(cardfmt.Format("- ****", cardfmt.Options{}))
	})
}

func TestPretty(t *testing.T) {
	out := render(t, Pretty{Style: "notty", Width: 60}, accordionCard)
	assert.Contains(t, out, "Affirmation")
	assert.Contains(t, out, "hands")
}

func TestByName(t *testing.T) {
	for _, name := range []string{"plain", "markdown", "pretty", "html", "terminal"} {
		r, err := ByName(name, 80, "notty")
		require.NoError(t, err, name)
		assert.NotNil(t, r)
	}
	_, err := ByName("pdf", 80, "")
	assert.Error(t, err)
}
