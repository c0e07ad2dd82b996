package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mithrel/peacecards/internal/cardfmt"
	"github.com/mithrel/peacecards/internal/db"
	"github.com/mithrel/peacecards/internal/render"
	"github.com/mithrel/peacecards/pkg/api"
)

// maxBodyBytes bounds card update payloads.
const maxBodyBytes = 1 << 20

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.store.ListDecks(r.Context())
	if err != nil {
		s.log.Printf("http: list decks: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch decks")
		return
	}
	writeJSON(w, http.StatusOK, decks)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.GetDeck(r.Context(), r.PathValue("key"))
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, "Deck not found")
	case err != nil:
		s.log.Printf("http: get deck: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch deck")
	default:
		writeJSON(w, http.StatusOK, d)
	}
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.store.ListCards(r.Context(), r.PathValue("key"))
	if err != nil {
		s.log.Printf("http: list cards: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch cards")
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// loadCard resolves the {id} path value. It writes the error response and
// reports false when the card cannot be served.
func (s *Server) loadCard(w http.ResponseWriter, r *http.Request) (api.Card, bool) {
	id, err := api.ParseCardID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid card ID")
		return api.Card{}, false
	}
	c, err := s.store.GetCard(r.Context(), id)
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, "Card not found")
		return api.Card{}, false
	case err != nil:
		s.log.Printf("http: get card id=%d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch card")
		return api.Card{}, false
	}
	return c, true
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCard(w, r)
	if !ok {
		return
	}
	w.Header().Set("ETag", c.ETag())
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := api.ParseCardID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid card ID")
		return
	}
	var patch api.CardPatch
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid card update")
		return
	}
	c, err := s.store.UpdateCard(r.Context(), id, patch, ifMatch(r))
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, "Card not found")
		return
	case errors.Is(err, db.ErrConflict):
		writeError(w, http.StatusPreconditionFailed, "Card has changed")
		return
	case err != nil:
		s.log.Printf("http: update card id=%d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to update card")
		return
	}
	s.log.Printf("http: updated card id=%d", id)
	w.Header().Set("ETag", c.ETag())
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCardDocument(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCard(w, r)
	if !ok {
		return
	}
	doc := cardfmt.Format(c.Content, cardfmt.Options{DeckKey: r.URL.Query().Get("deck")})
	w.Header().Set("ETag", c.ETag())
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleCardHTML(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCard(w, r)
	if !ok {
		return
	}
	doc := cardfmt.Format(c.Content, cardfmt.Options{DeckKey: r.URL.Query().Get("deck")})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", c.ETag())
	if err := (render.HTML{}).Render(w, doc); err != nil {
		s.log.Printf("http: render card id=%d: %v", c.ID, err)
	}
}

// ifMatch returns the bare entity tag from If-Match. "*" and an absent
// header both mean unconditional.
func ifMatch(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("If-Match"))
	if v == "" || v == "*" {
		return ""
	}
	v = strings.TrimPrefix(v, "W/")
	return strings.Trim(v, `"`)
}
