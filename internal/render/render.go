// Package render translates formatted card documents into output for each
// client surface. Every adapter walks the same cardfmt node tree.
package render

import (
	"fmt"
	"io"

	"github.com/mithrel/peacecards/internal/cardfmt"
)

// Renderer writes one formatted card.
type Renderer interface {
	Render(w io.Writer, doc cardfmt.Document) error
}

// ByName returns the adapter registered for a CLI output format.
func ByName(name string, width int, style string) (Renderer, error) {
	switch name {
	case "plain":
		return Plain{}, nil
	case "markdown", "md":
		return Markdown{}, nil
	case "pretty":
		return Pretty{Style: style, Width: width}, nil
	case "html":
		return HTML{}, nil
	case "terminal", "term":
		return Terminal{Width: width}, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", name)
	}
}
