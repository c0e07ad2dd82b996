package cardfmt

import "strings"

// Section is a titled block of an accordion card.
type Section struct {
	Header    string // full trimmed header line
	Icon      string
	Title     string // display title, delimiters and icon removed
	BodyLines []string
}

// Split groups content into the lines before the first header and the
// sections that follow, in encounter order. Blank lines are kept.
func Split(content string) (intro []string, sections []Section) {
	var cur *Section
	for _, line := range strings.Split(Normalize(content), "\n") {
		if IsHeaderLine(line) {
			if cur != nil {
				sections = append(sections, *cur)
			}
			header := strings.TrimSpace(line)
			icon, title := ParseHeader(header)
			cur = &Section{Header: header, Icon: icon, Title: title}
			continue
		}
		if cur != nil {
			cur.BodyLines = append(cur.BodyLines, line)
			continue
		}
		intro = append(intro, line)
	}
	if cur != nil {
		sections = append(sections, *cur)
	}
	return intro, sections
}
