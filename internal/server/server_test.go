package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/peacecards/internal/cardfmt"
	"github.com/mithrel/peacecards/internal/db"
	"github.com/mithrel/peacecards/pkg/api"
)

func newTestServer(t *testing.T, token string) (*httptest.Server, db.Store) {
	t.Helper()
	ctx := context.Background()
	store, closer, err := db.Open(ctx, "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	_, err = store.CreateDeck(ctx, api.Deck{Key: "owning", Title: "Owning", Order: 2})
	require.NoError(t, err)
	_, err = store.CreateDeck(ctx, api.Deck{Key: "foundation", Title: "Foundation", Order: 1})
	require.NoError(t, err)
	_, err = store.CreateCard(ctx, api.Card{DeckKey: "foundation", Title: "Sections", Order: 2,
		Content: "🌟 **Affirmation**\nYou matter\n👁 **Eye Gazing**\nLook"})
	require.NoError(t, err)
	_, err = store.CreateCard(ctx, api.Card{DeckKey: "foundation", Title: "Flat", Order: 1,
		Content: "**Heading**\n- item"})
	require.NoError(t, err)

	cfg := viper.New()
	cfg.Set("auth.token", token)
	srv := New(cfg, store, log.New(io.Discard, "", 0))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, store
}

func do(t *testing.T, method, url string, body string, header map[string]string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func errorOf(t *testing.T, resp *http.Response) string {
	return decode[api.ErrorBody](t, resp).Error
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, "")
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "", nil)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(b))
}

func TestDecks(t *testing.T) {
	ts, _ := newTestServer(t, "")

	resp := do(t, http.MethodGet, ts.URL+"/api/decks", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	decks := decode[[]api.Deck](t, resp)
	require.Len(t, decks, 2)
	assert.Equal(t, "foundation", decks[0].Key)

	resp = do(t, http.MethodGet, ts.URL+"/api/decks/owning", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Owning", decode[api.Deck](t, resp).Title)

	resp = do(t, http.MethodGet, ts.URL+"/api/decks/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Deck not found", errorOf(t, resp))
}

func TestDeckCards(t *testing.T) {
	ts, _ := newTestServer(t, "")

	resp := do(t, http.MethodGet, ts.URL+"/api/decks/foundation/cards", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cards := decode[[]api.Card](t, resp)
	require.Len(t, cards, 2)
	assert.Equal(t, "Flat", cards[0].Title)

	resp = do(t, http.MethodGet, ts.URL+"/api/decks/nope/cards", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "[]\n", string(b))
}

func TestGetCard(t *testing.T) {
	ts, store := newTestServer(t, "")

	resp := do(t, http.MethodGet, ts.URL+"/api/cards/1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c := decode[api.Card](t, resp)
	assert.Equal(t, "Sections", c.Title)
	cur, err := store.GetCard(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, cur.ETag(), resp.Header.Get("ETag"))

	for _, id := range []string{"abc", "0", "-3"} {
		resp = do(t, http.MethodGet, ts.URL+"/api/cards/"+id, "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, id)
		assert.Equal(t, "Invalid card ID", errorOf(t, resp))
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/cards/99", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Card not found", errorOf(t, resp))
}

func TestUpdateCard(t *testing.T) {
	ts, _ := newTestServer(t, "")

	etag := do(t, http.MethodGet, ts.URL+"/api/cards/2", "", nil).Header.Get("ETag")
	resp := do(t, http.MethodPut, ts.URL+"/api/cards/2", `{"title":"Renamed"}`, map[string]string{"If-Match": etag})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c := decode[api.Card](t, resp)
	assert.Equal(t, "Renamed", c.Title)
	assert.Equal(t, "**Heading**\n- item", c.Content)
	assert.NotEqual(t, etag, resp.Header.Get("ETag"))

	resp = do(t, http.MethodPut, ts.URL+"/api/cards/2", `{"title":"Again"}`, map[string]string{"If-Match": etag})
	assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)

	resp = do(t, http.MethodPut, ts.URL+"/api/cards/2", `{"title":"Forced"}`, map[string]string{"If-Match": "*"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPut, ts.URL+"/api/cards/2", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPut, ts.URL+"/api/cards/x", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid card ID", errorOf(t, resp))

	resp = do(t, http.MethodPut, ts.URL+"/api/cards/42", `{}`, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateCardRequiresToken(t *testing.T) {
	ts, _ := newTestServer(t, "s3cret")

	resp := do(t, http.MethodPut, ts.URL+"/api/cards/1", `{"title":"x"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, http.MethodPut, ts.URL+"/api/cards/1", `{"title":"x"}`, map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, http.MethodPut, ts.URL+"/api/cards/1", `{"title":"x"}`, map[string]string{"Authorization": "Bearer s3cret"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// reads stay open
	resp = do(t, http.MethodGet, ts.URL+"/api/cards/1", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCardDocument(t *testing.T) {
	ts, _ := newTestServer(t, "")

	resp := do(t, http.MethodGet, ts.URL+"/api/cards/1/document", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := decode[cardfmt.Document](t, resp)
	assert.Equal(t, cardfmt.LayoutAccordion, doc.Layout)
	secs := doc.Sections()
	require.Len(t, secs, 2)
	assert.Equal(t, "Affirmation", secs[0].Title)

	resp = do(t, http.MethodGet, ts.URL+"/api/cards/2/document?deck=foundation", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc = decode[cardfmt.Document](t, resp)
	assert.Equal(t, cardfmt.LayoutFlat, doc.Layout)
	assert.Equal(t, cardfmt.KindHeading, doc.Nodes[0].Kind)
}

func TestCardHTML(t *testing.T) {
	ts, _ := newTestServer(t, "")

	resp := do(t, http.MethodGet, ts.URL+"/api/cards/1/html", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), `<details class="section">`)

	resp = do(t, http.MethodGet, ts.URL+"/api/cards/7/html", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

type failingStore struct{ db.Store }

var errBoom = errors.New("boom")

func (failingStore) ListDecks(context.Context) ([]api.Deck, error)         { return nil, errBoom }
func (failingStore) GetDeck(context.Context, string) (api.Deck, error)     { return api.Deck{}, errBoom }
func (failingStore) ListCards(context.Context, string) ([]api.Card, error) { return nil, errBoom }
func (failingStore) GetCard(context.Context, int64) (api.Card, error)      { return api.Card{}, errBoom }
func (failingStore) UpdateCard(context.Context, int64, api.CardPatch, string) (api.Card, error) {
	return api.Card{}, errBoom
}

func TestStoreFailures(t *testing.T) {
	srv := New(viper.New(), failingStore{}, log.New(io.Discard, "", 0))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	tests := []struct {
		method, path, body, msg string
	}{
		{http.MethodGet, "/api/decks", "", "Failed to fetch decks"},
		{http.MethodGet, "/api/decks/a", "", "Failed to fetch deck"},
		{http.MethodGet, "/api/decks/a/cards", "", "Failed to fetch cards"},
		{http.MethodGet, "/api/cards/1", "", "Failed to fetch card"},
		{http.MethodPut, "/api/cards/1", "{}", "Failed to update card"},
	}
	for _, tt := range tests {
		resp := do(t, tt.method, ts.URL+tt.path, tt.body, nil)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, tt.path)
		assert.Equal(t, tt.msg, errorOf(t, resp), tt.path)
	}
}

func TestIfMatch(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"*":       "",
		`"abc"`:   "abc",
		`W/"abc"`: "abc",
		" abc ":   "abc",
	}
	for in, want := range tests {
		r := httptest.NewRequest(http.MethodPut, "/", nil)
		r.Header.Set("If-Match", in)
		assert.Equal(t, want, ifMatch(r), in)
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	store, closer, err := db.Open(context.Background(), "mem://")
	require.NoError(t, err)
	defer closer.Close()
	srv := New(viper.New(), store, log.New(io.Discard, "", 0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, ServeOptions{Addr: "127.0.0.1:0"}) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}

func TestBuildCertMagicTLSValidates(t *testing.T) {
	_, _, err := BuildCertMagicTLS(context.Background(), CertMagicConfig{StorageDir: t.TempDir()})
	assert.ErrorContains(t, err, "domain")
	_, _, err = BuildCertMagicTLS(context.Background(), CertMagicConfig{Domains: []string{"cards.example"}})
	assert.ErrorContains(t, err, "storage dir")
}
