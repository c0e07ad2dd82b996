package db

import (
	"context"
	"sort"
	"sync"

	"github.com/mithrel/peacecards/pkg/api"
)

type memStore struct {
	mu       sync.RWMutex
	decks    map[string]api.Deck
	cards    map[int64]api.Card
	nextDeck int64
	nextCard int64
}

func newMemStore() *memStore {
	return &memStore{
		decks:    make(map[string]api.Deck),
		cards:    make(map[int64]api.Card),
		nextDeck: 1,
		nextCard: 1,
	}
}

func (m *memStore) ListDecks(ctx context.Context) ([]api.Deck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]api.Deck, 0, len(m.decks))
	for _, d := range m.decks {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memStore) GetDeck(ctx context.Context, key string) (api.Deck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.decks[key]
	if !ok {
		return api.Deck{}, ErrNotFound
	}
	return d, nil
}

func (m *memStore) CreateDeck(ctx context.Context, d api.Deck) (api.Deck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.decks[d.Key]; ok || d.Key == "" {
		return api.Deck{}, ErrConflict
	}
	d.ID = m.nextDeck
	m.nextDeck++
	m.decks[d.Key] = d
	return d, nil
}

func (m *memStore) ListCards(ctx context.Context, deckKey string) ([]api.Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []api.Card{}
	for _, c := range m.cards {
		if c.DeckKey == deckKey {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memStore) GetCard(ctx context.Context, id int64) (api.Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cards[id]
	if !ok {
		return api.Card{}, ErrNotFound
	}
	return c, nil
}

func (m *memStore) CreateCard(ctx context.Context, c api.Card) (api.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextCard
	m.nextCard++
	m.cards[c.ID] = c
	return c, nil
}

func (m *memStore) UpdateCard(ctx context.Context, id int64, patch api.CardPatch, ifMatch string) (api.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.cards[id]
	if !ok {
		return api.Card{}, ErrNotFound
	}
	if ifMatch != "" && ifMatch != cur.Hash() {
		return api.Card{}, ErrConflict
	}
	next := patch.Apply(cur)
	m.cards[id] = next
	return next, nil
}
