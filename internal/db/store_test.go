package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mithrel/peacecards/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactories runs each contract test against every backend.
func storeFactories(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"mem": func(t *testing.T) Store {
			s, closer, err := Open(context.Background(), "mem://")
			require.NoError(t, err)
			t.Cleanup(func() { closer.Close() })
			return s
		},
		"sqlite": func(t *testing.T) Store {
			path := filepath.Join(t.TempDir(), "cards.db")
			s, closer, err := Open(context.Background(), "sqlite://"+path)
			require.NoError(t, err)
			t.Cleanup(func() { closer.Close() })
			return s
		},
	}
}

func TestStoreDecks(t *testing.T) {
	for name, open := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			second, err := s.CreateDeck(ctx, api.Deck{Key: "listening", Title: "Empathic Listening", Order: 2})
			require.NoError(t, err)
			first, err := s.CreateDeck(ctx, api.Deck{Key: "foundation", Title: "Foundation Basics", ImageURL: "/a.png", Order: 1})
			require.NoError(t, err)
			assert.NotZero(t, first.ID)
			assert.NotEqual(t, first.ID, second.ID)

			_, err = s.CreateDeck(ctx, api.Deck{Key: "foundation", Title: "dup"})
			assert.ErrorIs(t, err, ErrConflict)

			decks, err := s.ListDecks(ctx)
			require.NoError(t, err)
			require.Len(t, decks, 2)
			assert.Equal(t, "foundation", decks[0].Key)
			assert.Equal(t, "listening", decks[1].Key)

			got, err := s.GetDeck(ctx, "foundation")
			require.NoError(t, err)
			assert.Equal(t, first, got)

			_, err = s.GetDeck(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreCards(t *testing.T) {
	for name, open := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			b, err := s.CreateCard(ctx, api.Card{DeckKey: "wounds", Title: "B", Order: 2})
			require.NoError(t, err)
			a, err := s.CreateCard(ctx, api.Card{DeckKey: "wounds", Title: "A", Content: "🌟 **Affirmation**\nbody", Order: 1})
			require.NoError(t, err)
			_, err = s.CreateCard(ctx, api.Card{DeckKey: "other", Title: "C", Order: 1})
			require.NoError(t, err)

			cards, err := s.ListCards(ctx, "wounds")
			require.NoError(t, err)
			require.Len(t, cards, 2)
			assert.Equal(t, []int64{a.ID, b.ID}, []int64{cards[0].ID, cards[1].ID})

			none, err := s.ListCards(ctx, "nope")
			require.NoError(t, err)
			assert.NotNil(t, none)
			assert.Empty(t, none)

			got, err := s.GetCard(ctx, a.ID)
			require.NoError(t, err)
			assert.Equal(t, a, got)

			_, err = s.GetCard(ctx, 9999)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreUpdateCard(t *testing.T) {
	for name, open := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			c, err := s.CreateCard(ctx, api.Card{DeckKey: "common", Title: "Old", Content: "keep", Category: "Cat", Order: 1})
			require.NoError(t, err)

			t.Run("partial patch leaves other fields", func(t *testing.T) {
				title := "New"
				got, err := s.UpdateCard(ctx, c.ID, api.CardPatch{Title: &title}, "")
				require.NoError(t, err)
				assert.Equal(t, "New", got.Title)
				assert.Equal(t, "keep", got.Content)
				assert.Equal(t, "Cat", got.Category)

				stored, err := s.GetCard(ctx, c.ID)
				require.NoError(t, err)
				assert.Equal(t, got, stored)
			})

			t.Run("if-match against current hash", func(t *testing.T) {
				cur, err := s.GetCard(ctx, c.ID)
				require.NoError(t, err)

				content := "updated"
				_, err = s.UpdateCard(ctx, c.ID, api.CardPatch{Content: &content}, "stale")
				assert.ErrorIs(t, err, ErrConflict)

				got, err := s.UpdateCard(ctx, c.ID, api.CardPatch{Content: &content}, cur.Hash())
				require.NoError(t, err)
				assert.Equal(t, "updated", got.Content)
			})

			t.Run("unknown card", func(t *testing.T) {
				_, err := s.UpdateCard(ctx, 424242, api.CardPatch{}, "")
				assert.ErrorIs(t, err, ErrNotFound)
			})
		})
	}
}

func TestOpenUnsupportedURL(t *testing.T) {
	_, _, err := Open(context.Background(), "postgres://localhost/cards")
	assert.Error(t, err)
}
