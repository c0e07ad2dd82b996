package cardfmt

import "strings"

const (
	bulletMarker  = "- "
	calloutPrefix = "Example:"

	// primaryHeading is the one heading text rendered at tier 1. Every other
	// full-line heading is tier 2.
	primaryHeading = "Core Influences:"
)

// SplitEmphasis splits s on the bold delimiter and tags spans by position:
// even spans are plain, odd spans are emphasis. Empty spans are kept so the
// positions stay visible; an unpaired delimiter leaves a trailing emphasis span.
func SplitEmphasis(s string) []Run {
	parts := strings.Split(s, boldDelim)
	out := make([]Run, 0, len(parts))
	for i, p := range parts {
		style := StylePlain
		if i%2 == 1 {
			style = StyleEmphasis
		}
		out = append(out, Run{Style: style, Text: p})
	}
	return out
}

// Runs is SplitEmphasis without the empty spans.
func Runs(s string) []Run {
	all := SplitEmphasis(s)
	out := all[:0]
	for _, r := range all {
		if r.Text != "" {
			out = append(out, r)
		}
	}
	return out
}

// FormatLine formats one line of a flat card.
func FormatLine(line string) Node {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return spacing()
	}
	if text, ok := fullLineHeading(trimmed); ok {
		tier := 2
		if text == primaryHeading {
			tier = 1
		}
		return Node{Kind: KindHeading, Tier: tier, Text: text}
	}
	switch {
	case strings.HasPrefix(trimmed, bulletMarker):
		return Node{Kind: KindListItem, Runs: Runs(strings.TrimPrefix(trimmed, bulletMarker))}
	case strings.HasPrefix(trimmed, calloutPrefix):
		return Node{Kind: KindCallout, Runs: Runs(trimmed)}
	default:
		return Node{Kind: KindParagraph, Runs: Runs(trimmed)}
	}
}

// FormatBodyLine formats one line of an accordion section body or intro. Only
// blank lines and bold runs are recognised; the text may carry trusted markup.
func FormatBodyLine(line string) Node {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return spacing()
	}
	return Node{Kind: KindParagraph, Runs: Runs(trimmed), Markup: true}
}

func fullLineHeading(trimmed string) (string, bool) {
	if len(trimmed) <= 2*len(boldDelim) {
		return "", false
	}
	if !strings.HasPrefix(trimmed, boldDelim) || !strings.HasSuffix(trimmed, boldDelim) {
		return "", false
	}
	inner := trimmed[len(boldDelim) : len(trimmed)-len(boldDelim)]
	if strings.Contains(inner, boldDelim) {
		return "", false
	}
	return inner, true
}
