package cardfmt

import "strings"

// Options carries optional rendering context.
type Options struct {
	// DeckKey restricts the known header vocabulary to one deck's idioms
	// (plus shared ones). Empty means the whole vocabulary.
	DeckKey string
}

// Reason records which detection path chose the layout.
type Reason string

const (
	ReasonNone      Reason = "none"
	ReasonKnownPair Reason = "known-pair"
	ReasonGeneric   Reason = "generic"
)

// Classification is the Layout Selector's verdict for one card.
type Classification struct {
	Layout Layout
	Reason Reason
	// Known lists the distinct known idioms found in the content.
	Known []KnownHeader
}

// minKnownMarkers is the number of distinct known idioms that switches a card
// to accordion layout. A single generic header line is enough on its own.
const minKnownMarkers = 2

// SelectLayout decides between flat and accordion layout for content.
func SelectLayout(content string, opts Options) Classification {
	content = Normalize(content)
	known := knownMarkersIn(content, opts.DeckKey)
	if len(known) >= minKnownMarkers {
		return Classification{Layout: LayoutAccordion, Reason: ReasonKnownPair, Known: known}
	}
	for _, line := range strings.Split(content, "\n") {
		if isGenericHeader(strings.TrimSpace(line)) {
			return Classification{Layout: LayoutAccordion, Reason: ReasonGeneric, Known: known}
		}
	}
	return Classification{Layout: LayoutFlat, Reason: ReasonNone, Known: known}
}

// Normalize turns literal "\n" escape sequences and CRLF line endings into
// plain newlines.
func Normalize(content string) string {
	content = strings.ReplaceAll(content, `\n`, "\n")
	return strings.ReplaceAll(content, "\r\n", "\n")
}
