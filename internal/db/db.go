package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mithrel/peacecards/pkg/api"
)

// Store is the deck and card repository shared by the server and the CLI.
type Store interface {
	ListDecks(ctx context.Context) ([]api.Deck, error)
	GetDeck(ctx context.Context, key string) (api.Deck, error)
	CreateDeck(ctx context.Context, d api.Deck) (api.Deck, error)

	// ListCards returns the cards of a deck ordered by Order. An unknown deck
	// yields an empty list, not ErrNotFound.
	ListCards(ctx context.Context, deckKey string) ([]api.Card, error)
	GetCard(ctx context.Context, id int64) (api.Card, error)
	CreateCard(ctx context.Context, c api.Card) (api.Card, error)
	// UpdateCard applies patch to the card. When ifMatch is non-empty it must
	// equal the card's current Hash or ErrConflict is returned.
	UpdateCard(ctx context.Context, id int64, patch api.CardPatch, ifMatch string) (api.Card, error)
}

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Open returns a Store for the given URL: mem:// or sqlite://path.
// The closer releases the underlying resources.
func Open(ctx context.Context, url string) (Store, io.Closer, error) {
	switch {
	case url == "" || strings.HasPrefix(url, "mem://"):
		return newMemStore(), nopCloser{}, nil
	case strings.HasPrefix(url, "sqlite://"):
		return openSQLite(ctx, url)
	default:
		return nil, nil, fmt.Errorf("unsupported db url %q", url)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
