// Package server exposes decks and cards over a JSON REST API.
package server

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mithrel/peacecards/internal/db"
)

// Server serves the deck and card API backed by a Store.
type Server struct {
	cfg   *viper.Viper
	store db.Store
	log   *log.Logger
}

func New(cfg *viper.Viper, store db.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, store: store, log: logger}
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /api/decks", s.handleListDecks)
	mux.HandleFunc("GET /api/decks/{key}", s.handleGetDeck)
	mux.HandleFunc("GET /api/decks/{key}/cards", s.handleListCards)
	mux.HandleFunc("GET /api/cards/{id}", s.handleGetCard)
	mux.HandleFunc("PUT /api/cards/{id}", s.auth(s.handleUpdateCard))
	mux.HandleFunc("GET /api/cards/{id}/document", s.handleCardDocument)
	mux.HandleFunc("GET /api/cards/{id}/html", s.handleCardHTML)
	return s.logRequests(mux)
}

// auth requires a bearer token when auth.token is configured.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimSpace(s.cfg.GetString("auth.token"))
		if tok == "" {
			next.ServeHTTP(w, r)
			return
		}
		got := r.Header.Get("Authorization")
		if !strings.HasPrefix(got, "Bearer ") ||
			subtle.ConstantTimeCompare([]byte(strings.TrimSpace(strings.TrimPrefix(got, "Bearer "))), []byte(tok)) != 1 {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Printf("http: %s %s status=%d dur=%s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
