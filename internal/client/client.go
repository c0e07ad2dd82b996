// Package client is a typed client for the peacecards REST API. It
// implements db.Store so CLI commands can browse a remote server the same way
// they browse a local database.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mithrel/peacecards/internal/cardfmt"
	"github.com/mithrel/peacecards/internal/db"
	"github.com/mithrel/peacecards/pkg/api"
)

var (
	// ErrReadOnly is returned for writes the REST API does not expose.
	ErrReadOnly     = errors.New("remote store is read-only for decks and new cards")
	ErrUnauthorized = errors.New("unauthorized: check remote.token")
)

// APIError is a non-success response carrying the server's error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote: HTTP %d", e.Status)
	}
	return fmt.Sprintf("remote: %s (HTTP %d)", e.Message, e.Status)
}

type Client struct {
	base       string
	token      string
	httpClient *http.Client
}

var _ db.Store = (*Client)(nil)

// New returns a client for the server at baseURL, e.g. http://localhost:5000.
func New(baseURL, token string) *Client {
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		token: token,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

func (c *Client) ListDecks(ctx context.Context) ([]api.Deck, error) {
	var out []api.Deck
	err := c.getJSON(ctx, "/api/decks", &out)
	return out, err
}

func (c *Client) GetDeck(ctx context.Context, key string) (api.Deck, error) {
	var out api.Deck
	err := c.getJSON(ctx, "/api/decks/"+url.PathEscape(key), &out)
	return out, err
}

func (c *Client) CreateDeck(context.Context, api.Deck) (api.Deck, error) {
	return api.Deck{}, ErrReadOnly
}

func (c *Client) ListCards(ctx context.Context, deckKey string) ([]api.Card, error) {
	out := []api.Card{}
	err := c.getJSON(ctx, "/api/decks/"+url.PathEscape(deckKey)+"/cards", &out)
	return out, err
}

func (c *Client) GetCard(ctx context.Context, id int64) (api.Card, error) {
	var out api.Card
	err := c.getJSON(ctx, cardPath(id, ""), &out)
	return out, err
}

func (c *Client) CreateCard(context.Context, api.Card) (api.Card, error) {
	return api.Card{}, ErrReadOnly
}

// UpdateCard sends patch with If-Match set to ifMatch when non-empty.
func (c *Client) UpdateCard(ctx context.Context, id int64, patch api.CardPatch, ifMatch string) (api.Card, error) {
	body, err := json.Marshal(patch)
	if err != nil {
		return api.Card{}, err
	}
	h := http.Header{"Content-Type": {"application/json"}}
	if ifMatch != "" {
		h.Set("If-Match", `"`+ifMatch+`"`)
	}
	b, err := c.do(ctx, http.MethodPut, cardPath(id, ""), h, body)
	if err != nil {
		return api.Card{}, err
	}
	var out api.Card
	if err := json.Unmarshal(b, &out); err != nil {
		return api.Card{}, fmt.Errorf("decode card: %w", err)
	}
	return out, nil
}

// Document fetches the server-formatted document of a card. deck may be
// empty.
func (c *Client) Document(ctx context.Context, id int64, deck string) (cardfmt.Document, error) {
	var out cardfmt.Document
	err := c.getJSON(ctx, cardPath(id, "/document")+deckQuery(deck), &out)
	return out, err
}

// HTML fetches the server-rendered HTML fragment of a card.
func (c *Client) HTML(ctx context.Context, id int64, deck string) (string, error) {
	b, err := c.do(ctx, http.MethodGet, cardPath(id, "/html")+deckQuery(deck), nil, nil)
	return string(b), err
}

func cardPath(id int64, suffix string) string {
	return "/api/cards/" + strconv.FormatInt(id, 10) + suffix
}

func deckQuery(deck string) string {
	if deck == "" {
		return ""
	}
	return "?deck=" + url.QueryEscape(deck)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	b, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, h http.Header, body []byte) ([]byte, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, r)
	if err != nil {
		return nil, err
	}
	for k, vs := range h {
		req.Header[k] = vs
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 == 2 {
		return respBody, nil
	}
	return nil, statusError(resp.StatusCode, respBody)
}

// statusError maps API failures onto the store's sentinel errors.
func statusError(code int, body []byte) error {
	var eb api.ErrorBody
	_ = json.Unmarshal(body, &eb)
	apiErr := &APIError{Status: code, Message: eb.Error}
	switch code {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", db.ErrNotFound, apiErr)
	case http.StatusPreconditionFailed:
		return fmt.Errorf("%w: %w", db.ErrConflict, apiErr)
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return apiErr
	}
}
