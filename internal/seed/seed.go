// Package seed holds the default decks and cards loaded into an empty store.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/mithrel/peacecards/internal/db"
	"github.com/mithrel/peacecards/pkg/api"
)

//go:embed decks.toml
var decksTOML string

type deckRecord struct {
	Key         string `toml:"key"`
	Title       string `toml:"title"`
	Subtitle    string `toml:"subtitle"`
	Description string `toml:"description"`
	Color       string `toml:"color"`
	ImageURL    string `toml:"image_url"`
	Order       int    `toml:"order"`
}

type cardRecord struct {
	Deck     string `toml:"deck"`
	Title    string `toml:"title"`
	Category string `toml:"category"`
	Preview  string `toml:"preview"`
	Order    int    `toml:"order"`
	Content  string `toml:"content"`
}

type file struct {
	Decks []deckRecord `toml:"decks"`
	Cards []cardRecord `toml:"cards"`
}

// Load decodes the embedded seed data.
func Load() ([]api.Deck, []api.Card, error) {
	return Parse(decksTOML)
}

// Parse decodes seed data in the decks.toml layout. Every card must name a
// deck defined in the same document.
func Parse(data string) ([]api.Deck, []api.Card, error) {
	var f file
	md, err := toml.Decode(data, &f)
	if err != nil {
		return nil, nil, fmt.Errorf("decode seed: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, nil, fmt.Errorf("decode seed: unknown key %s", undec[0])
	}
	known := make(map[string]bool, len(f.Decks))
	decks := make([]api.Deck, 0, len(f.Decks))
	for _, d := range f.Decks {
		if d.Key == "" {
			return nil, nil, fmt.Errorf("seed deck %q has no key", d.Title)
		}
		if known[d.Key] {
			return nil, nil, fmt.Errorf("seed deck %q defined twice", d.Key)
		}
		known[d.Key] = true
		decks = append(decks, api.Deck{
			Key:         d.Key,
			Title:       d.Title,
			Subtitle:    d.Subtitle,
			Description: d.Description,
			Color:       d.Color,
			ImageURL:    d.ImageURL,
			Order:       d.Order,
		})
	}
	cards := make([]api.Card, 0, len(f.Cards))
	for _, c := range f.Cards {
		if !known[c.Deck] {
			return nil, nil, fmt.Errorf("seed card %q references unknown deck %q", c.Title, c.Deck)
		}
		cards = append(cards, api.Card{
			DeckKey:  c.Deck,
			Title:    c.Title,
			Content:  c.Content,
			Category: c.Category,
			Preview:  c.Preview,
			Order:    c.Order,
		})
	}
	return decks, cards, nil
}

// Apply inserts decks and cards into s, in one transaction when s supports it.
func Apply(ctx context.Context, s db.Store, decks []api.Deck, cards []api.Card) error {
	return db.InTx(ctx, s, func(ctx context.Context) error {
		for _, d := range decks {
			if _, err := s.CreateDeck(ctx, d); err != nil {
				return fmt.Errorf("seed deck %s: %w", d.Key, err)
			}
		}
		for _, c := range cards {
			if _, err := s.CreateCard(ctx, c); err != nil {
				return fmt.Errorf("seed card %q: %w", c.Title, err)
			}
		}
		return nil
	})
}

// EnsureSeeded loads the embedded data into s when it has no decks yet.
// It reports whether anything was inserted.
func EnsureSeeded(ctx context.Context, s db.Store) (bool, error) {
	existing, err := s.ListDecks(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	decks, cards, err := Load()
	if err != nil {
		return false, err
	}
	if err := Apply(ctx, s, decks, cards); err != nil {
		return false, err
	}
	return true, nil
}
