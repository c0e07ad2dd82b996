package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/peacecards/internal/cardfmt"
	"github.com/mithrel/peacecards/pkg/api"
)

// CardDocument is a card together with its formatted document.
type CardDocument struct {
	api.Card `yaml:",inline"`
	Document cardfmt.Document `json:"document" yaml:"document"`
}

// WriteJSON encodes v as a single JSON value.
func WriteJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
