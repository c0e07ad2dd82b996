package present

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mithrel/peacecards/internal/cardfmt"
	"github.com/mithrel/peacecards/internal/present/format"
	"github.com/mithrel/peacecards/internal/present/tui"
	"github.com/mithrel/peacecards/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
	ModeYAML
	ModeHTML
	ModeTUI
)

var errListHTML = errors.New("html output applies to a single card")

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	// Width wraps pretty output; 0 uses the renderer default.
	Width int
	Style string
	// Query is a jq expression applied to json and ndjson output.
	Query string
	// DeckKey limits header idiom detection to one deck plus the shared
	// idioms. Empty detects every deck's idioms.
	DeckKey string
	// Formatter, when set, formats single cards on a server instead of
	// locally.
	Formatter Formatter
}

// Formatter formats stored cards by ID. The HTTP client satisfies it.
type Formatter interface {
	Document(ctx context.Context, id int64, deck string) (cardfmt.Document, error)
	HTML(ctx context.Context, id int64, deck string) (string, error)
}

// ParseMode parses a string like "plain", "pretty", "json", "ndjson", "yaml",
// "html", "tui".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	case "yaml":
		return ModeYAML, true
	case "html":
		return ModeHTML, true
	case "tui":
		return ModeTUI, true
	default:
		return ModePlain, false
	}
}

// Document formats c for display.
func Document(c api.Card, opts Options) cardfmt.Document {
	return cardfmt.Format(c.Content, cardfmt.Options{DeckKey: opts.DeckKey})
}

// RenderDecks renders the deck list.
func RenderDecks(w io.Writer, decks []api.Deck, opts Options) error {
	if ok, err := query(w, decks, opts); ok {
		return err
	}
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, decks, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, decks)
	case ModeYAML:
		return format.WriteYAML(w, decks)
	case ModePretty:
		return format.WritePrettyDecks(w, decks, opts.Style, opts.Width)
	case ModeHTML:
		return errListHTML
	default:
		return format.WritePlainDecks(w, decks, opts.Headers)
	}
}

// RenderCards renders the cards of one deck. TUI mode opens the deck browser.
func RenderCards(ctx context.Context, w io.Writer, deck api.Deck, cards []api.Card, opts Options) error {
	if ok, err := query(w, cards, opts); ok {
		return err
	}
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, cards, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, cards)
	case ModeYAML:
		return format.WriteYAML(w, cards)
	case ModePretty:
		return format.WritePrettyCards(w, deck, cards, opts.Style, opts.Width)
	case ModeHTML:
		return errListHTML
	case ModeTUI:
		return tui.RunDeck(ctx, deck, cards, opts.Headers)
	default:
		return format.WritePlainCards(w, cards, opts.Headers)
	}
}

// RenderCard renders a single formatted card. TUI mode opens the accordion
// viewer.
func RenderCard(ctx context.Context, w io.Writer, c api.Card, opts Options) error {
	if opts.Formatter != nil && opts.Mode == ModeHTML {
		body, err := opts.Formatter.HTML(ctx, c.ID, opts.DeckKey)
		if err != nil {
			return fmt.Errorf("fetch card html: %w", err)
		}
		return format.WriteHTMLFragment(w, c, body)
	}
	doc := Document(c, opts)
	if opts.Formatter != nil {
		remote, err := opts.Formatter.Document(ctx, c.ID, opts.DeckKey)
		if err != nil {
			return fmt.Errorf("fetch card document: %w", err)
		}
		doc = remote
	}
	if ok, err := query(w, format.CardDocument{Card: c, Document: doc}, opts); ok {
		return err
	}
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, format.CardDocument{Card: c, Document: doc}, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, []format.CardDocument{{Card: c, Document: doc}})
	case ModeYAML:
		return format.WriteYAML(w, format.CardDocument{Card: c, Document: doc})
	case ModeHTML:
		return format.WriteHTMLCard(w, c, doc)
	case ModePretty:
		return format.WritePrettyCard(w, c, doc, opts.Style, opts.Width)
	case ModeTUI:
		return tui.RunCard(ctx, c, doc)
	default:
		return format.WritePlainCard(w, c, doc, opts.Headers)
	}
}

// query runs opts.Query for the JSON modes. ok is false when output should
// take the regular path.
func query(w io.Writer, v any, opts Options) (ok bool, err error) {
	if opts.Query == "" || (opts.Mode != ModeJSON && opts.Mode != ModeNDJSON) {
		return false, nil
	}
	return true, format.WriteQuery(w, v, opts.Query, opts.JSONIndent && opts.Mode == ModeJSON)
}
