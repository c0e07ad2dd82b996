package cardfmt

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

const (
	boldDelim    = "**"
	variationSel = "\uFE0F"
)

// headerEmoji lists the emoji authors put in front of a bold section title.
// Entries are stored without the U+FE0F variation selector; matching tolerates
// it either way.
var headerEmoji = []string{
	"🌟", "👁", "❓", "🧩", "🤝", "👂", "🔄", "💛", "🧘", "💞", "🌑", "🙈",
	"❌", "🚪", "💔", "⚠", "🤗", "💝", "👀", "🗽", "🌱", "✨", "🛡", "⭐",
	"⚖", "👑", "🎭", "👣", "😔", "🔥", "👆", "🛟", "😤", "🔍", "📊", "💡",
	"💭", "🤔", "💫", "🌊", "🫂", "🪞", "🎧", "🎵", "💬", "🧠", "🎯", "🤲",
	"🕊", "📝", "🕰", "🫶", "🧏", "😰", "😊", "🤢", "😮", "🧨", "💪", "🧭",
	"😡", "🏥", "🩹", "❤", "🕳", "🌿", "🌬", "🔁", "☮", "🙏", "📋", "📢",
	"📖", "🛑", "⏰", "✅", "💥", "💎", "🏛", "🎁", "🎪", "🏃‍♂",
}

// KnownHeader is a header idiom already used by authored decks.
type KnownHeader struct {
	Deck  string // empty for idioms shared across decks
	Emoji string
	Title string
}

// Marker is the literal text the idiom appears as in card content.
func (k KnownHeader) Marker() string {
	return k.Emoji + " " + boldDelim + k.Title + boldDelim
}

var knownHeaders = []KnownHeader{
	// foundation: AEIOU, ATTUNE, attachment wounds, core needs
	{"foundation", "🌟", "Affirmation"},
	{"foundation", "👁", "Eye Gazing"},
	{"foundation", "❓", "Inquire"},
	{"foundation", "🧩", "Ownership"},
	{"foundation", "🤝", "Unite with a Ritual"},
	{"foundation", "👂", "Attend"},
	{"foundation", "🔄", "Turn Toward"},
	{"foundation", "💛", "Understand with Empathy"},
	{"foundation", "🧘", "No BRPEs (Blame, Rescue, Protest, Escape)"},
	{"foundation", "💞", "Engage with Compassion"},
	{"foundation", "🌑", "Loss"},
	{"foundation", "🙈", "Neglect"},
	{"foundation", "🤗", "Acceptance"},
	{"foundation", "💝", "Assurance"},

	// owning: shadows of shame, BRPEs, ownership worksheet
	{"owning", "⚖", "The Judge"},
	{"owning", "👑", "The Royal"},
	{"owning", "👑", "The Perfectionist"},
	{"owning", "👆", "Blame"},
	{"owning", "🛟", "Rescue"},
	{"owning", "🤝", "Ownership Statement"},
	{"owning", "🏥", "Facts"},
	{"owning", "🩹", "Wound & Core Belief"},
	{"owning", "❤", "Core Emotions"},
	{"owning", "🕳", "Shadows of Shame®"},
	{"owning", "🔄", "BRPE Reminder"},
	{"owning", "🧨", "What am I really angry about?"},
	{"owning", "🔥", "What shadow was activated in me?"},
	{"owning", "🛡", "Boundaries"},
	{"owning", "🧠", "Are the Core Beliefs and Messages from the Shadows 100% True?"},
	{"owning", "🧭", "What is the best decision I can make to resolve the situation, aligned with my value system?"},
	{"owning", "💡", "Are the messages from my shadows 100% true?"},
	{"owning", "🎯", "What is the most loving choice I can make right now?"},

	// wounds
	{"wounds", "📝", "What are the facts and the wound?"},
	{"wounds", "📝", "State the Facts"},
	{"wounds", "🫶", "\"When I hear you share this, I feel...\""},
	{"wounds", "💔", "Their Attachment Wound"},

	// common ground
	{"common", "🙏", "Apologize"},
	{"common", "💬", "Don't or Do Statements"},
	{"common", "🪞", "Practice Mindful Mirroring"},
	{"common", "💡", "Creating Safety Examples"},
	{"common", "👁", "See their suffering"},
	{"common", "✅", "Validate the pain"},
	{"common", "💥", "Acknowledge the impact"},
	{"common", "🩹", "Clarify what might help address the pain"},
	{"common", "🎯", "Reflect: What is My Intended Outcome?"},
	{"common", "🤝", "What Are We Already in Agreement About?"},
	{"common", "💭", "What Feelings Do We Have in Common?"},
	{"common", "✨", "What Is It That We Want to Experience?"},
	{"common", "💡", "How Many Strategies Can We Invent?"},
	{"common", "🎯", "Are We Clear on the Goal or Outcome?"},
	{"common", "💝", "Share how you feel about your actions"},
	{"common", "🌟", "What do I want for myself in this conversation?"},
	{"common", "💝", "What do I want for the other person?"},
	{"common", "🤝", "What do I want for the relationship as a whole?"},
	{"common", "😔", "I am feeling ___, and I am not sure how to..."},
	{"common", "😰", "I want to share something, but I am afraid..."},

	// shared
	{"", "⏰", "When to Use This Card"},
	{"", "💎", "Remember"},
	{"", "🌟", "Final Reflection"},
}

var (
	// emojiBeforeBold matches a table emoji followed by a space and a bold delimiter.
	emojiBeforeBold = buildEmojiBeforeBold(headerEmoji)

	// genericHeader matches an emoji run, a space, and a bold title filling the
	// rest of the line.
	genericHeader = regexp.MustCompile(`^((?:[\p{So}\x{FE0F}\x{200D}\x{1F3FB}-\x{1F3FF}])+) \*\*(.+)\*\*$`)
)

func buildEmojiBeforeBold(table []string) *regexp.Regexp {
	alts := make([]string, 0, len(table))
	for _, e := range table {
		alts = append(alts, regexp.QuoteMeta(e))
	}
	// Longest first so multi-codepoint sequences win over their prefixes.
	sort.Slice(alts, func(i, j int) bool { return len(alts[i]) > len(alts[j]) })
	return regexp.MustCompile(`(?:` + strings.Join(alts, "|") + `)\x{FE0F}? \*\*`)
}

// IsHeaderLine reports whether a single line opens an accordion section.
func IsHeaderLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	return isGenericHeader(trimmed) || emojiBeforeBold.MatchString(trimmed)
}

func isGenericHeader(trimmed string) bool {
	m := genericHeader.FindStringSubmatch(trimmed)
	if m == nil {
		return false
	}
	return !strings.Contains(m[2], boldDelim)
}

// ParseHeader splits a header line into its leading emoji icon and the display
// title with bold delimiters removed.
func ParseHeader(line string) (icon, title string) {
	text := strings.TrimSpace(strings.ReplaceAll(line, boldDelim, ""))
	end := 0
	for i, r := range text {
		if !isEmojiRune(r) {
			end = i
			break
		}
		end = i + len(string(r))
	}
	icon = text[:end]
	title = strings.TrimSpace(text[end:])
	if title == "" {
		// Emoji-only header: keep it as the title so nothing renders blank.
		return "", icon
	}
	return icon, title
}

func isEmojiRune(r rune) bool {
	switch {
	case r == 0xFE0F, r == 0x200D:
		return true
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	case r == '♂' || r == '♀':
		return true
	}
	return unicode.Is(unicode.So, r)
}

// knownMarkersIn returns the distinct known idioms present in content.
func knownMarkersIn(content, deck string) []KnownHeader {
	hay := strings.ReplaceAll(content, variationSel, "")
	seen := make(map[string]bool)
	var out []KnownHeader
	for _, k := range knownHeaders {
		if deck != "" && k.Deck != "" && k.Deck != deck {
			continue
		}
		m := k.Marker()
		if seen[m] {
			continue
		}
		if strings.Contains(hay, m) {
			seen[m] = true
			out = append(out, k)
		}
	}
	return out
}

// KnownHeaders returns a copy of the known idiom table.
func KnownHeaders() []KnownHeader {
	return append([]KnownHeader(nil), knownHeaders...)
}
