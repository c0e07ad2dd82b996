//go:build !mem

package db

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mithrel/peacecards/pkg/api"
)

type sqliteStore struct{ db *sql.DB }

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *sqliteStore) q(ctx context.Context) querier {
	if tx := ActiveTx(ctx); tx != nil {
		return tx
	}
	return s.db
}

func (s *sqliteStore) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

const deckColumns = `id, key, title, subtitle, description, color, image_url, "order"`

const cardColumns = `id, deck_key, title, content, category, preview, "order"`

type scanner interface{ Scan(dest ...any) error }

func scanDeck(r scanner) (api.Deck, error) {
	var d api.Deck
	err := r.Scan(&d.ID, &d.Key, &d.Title, &d.Subtitle, &d.Description, &d.Color, &d.ImageURL, &d.Order)
	return d, err
}

func scanCard(r scanner) (api.Card, error) {
	var c api.Card
	err := r.Scan(&c.ID, &c.DeckKey, &c.Title, &c.Content, &c.Category, &c.Preview, &c.Order)
	return c, err
}

func (s *sqliteStore) ListDecks(ctx context.Context) ([]api.Deck, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `SELECT `+deckColumns+` FROM card_decks ORDER BY "order", id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []api.Deck{}
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *sqliteStore) GetDeck(ctx context.Context, key string) (api.Deck, error) {
	row := s.q(ctx).QueryRowContext(ctx, `SELECT `+deckColumns+` FROM card_decks WHERE key=?`, key)
	d, err := scanDeck(row)
	if errors.Is(err, sql.ErrNoRows) {
		return api.Deck{}, ErrNotFound
	}
	return d, err
}

func (s *sqliteStore) CreateDeck(ctx context.Context, d api.Deck) (api.Deck, error) {
	if d.Key == "" {
		return api.Deck{}, ErrConflict
	}
	res, err := s.q(ctx).ExecContext(ctx, `INSERT INTO card_decks(key, title, subtitle, description, color, image_url, "order") VALUES(?,?,?,?,?,?,?)`,
		d.Key, d.Title, d.Subtitle, d.Description, d.Color, d.ImageURL, d.Order)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			err = ErrConflict
		}
		return api.Deck{}, err
	}
	d.ID, err = res.LastInsertId()
	return d, err
}

func (s *sqliteStore) ListCards(ctx context.Context, deckKey string) ([]api.Card, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE deck_key=? ORDER BY "order", id`, deckKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []api.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *sqliteStore) GetCard(ctx context.Context, id int64) (api.Card, error) {
	return getCard(ctx, s.q(ctx), id)
}

func getCard(ctx context.Context, q querier, id int64) (api.Card, error) {
	c, err := scanCard(q.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return api.Card{}, ErrNotFound
	}
	return c, err
}

func (s *sqliteStore) CreateCard(ctx context.Context, c api.Card) (api.Card, error) {
	res, err := s.q(ctx).ExecContext(ctx, `INSERT INTO cards(deck_key, title, content, category, preview, "order") VALUES(?,?,?,?,?,?)`,
		c.DeckKey, c.Title, c.Content, c.Category, c.Preview, c.Order)
	if err != nil {
		return api.Card{}, err
	}
	c.ID, err = res.LastInsertId()
	return c, err
}

// UpdateCard reads, checks and writes inside one transaction so the If-Match
// comparison and the write see the same row.
func (s *sqliteStore) UpdateCard(ctx context.Context, id int64, patch api.CardPatch, ifMatch string) (api.Card, error) {
	var out api.Card
	err := InTx(ctx, s, func(ctx context.Context) error {
		q := s.q(ctx)
		cur, err := getCard(ctx, q, id)
		if err != nil {
			return err
		}
		if ifMatch != "" && ifMatch != cur.Hash() {
			return ErrConflict
		}
		next := patch.Apply(cur)
		if _, err := q.ExecContext(ctx, `UPDATE cards SET title=?, content=?, category=?, preview=?, "order"=? WHERE id=?`,
			next.Title, next.Content, next.Category, next.Preview, next.Order, id); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return api.Card{}, err
	}
	return out, nil
}

// openSQLite connects to a SQLite database using modernc.org/sqlite driver and ensures schema exists.
func openSQLite(ctx context.Context, dsn string) (Store, io.Closer, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	return &sqliteStore{db: dbh}, dbh, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS card_decks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  key TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  subtitle TEXT NOT NULL,
  description TEXT NOT NULL,
  color TEXT NOT NULL,
  image_url TEXT NOT NULL,
  "order" INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS cards (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  deck_key TEXT NOT NULL,
  title TEXT NOT NULL,
  content TEXT NOT NULL,
  category TEXT NOT NULL,
  preview TEXT NOT NULL,
  "order" INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cards_deck_order ON cards(deck_key, "order", id);
`)
	return err
}
