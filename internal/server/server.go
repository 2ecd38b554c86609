// Package server exposes the street map and duels over HTTP, with a
// WebSocket per duel that carries turn results and host feedback.
package server

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Garsondee/Four-Quarters/internal/duel"
	"github.com/Garsondee/Four-Quarters/internal/save"
	"github.com/Garsondee/Four-Quarters/internal/street"
)

const maxCachedGeometries = 32

// Config wires a Server. Zero fields take defaults.
type Config struct {
	Store   save.Store       // defaults to an in-memory store
	NewRand func() duel.Rand // per-duel random source
	Now     func() time.Time
}

// Server serves the JSON API.
type Server struct {
	sessions *sessions

	geomMu sync.Mutex
	geoms  map[street.MapParams]*street.MapGeometry
}

func New(cfg Config) *Server {
	if cfg.Store == nil {
		cfg.Store = save.NewMemStore()
	}
	if cfg.NewRand == nil {
		cfg.NewRand = func() duel.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Server{
		sessions: newSessions(cfg.Store, cfg.NewRand, cfg.Now),
		geoms:    make(map[street.MapParams]*street.MapGeometry),
	}
}

// Handler returns the router with the standard middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	s.RegisterRoutes(r)
	return r
}

func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/map", s.getMap)
		r.Post("/map/tap", s.tapMap)
		r.Post("/duels", s.createDuel)
		r.Route("/duels/{id}", func(r chi.Router) {
			r.Get("/", s.getDuel)
			r.Post("/turns", s.resolveTurn)
			r.Post("/restart", s.restartDuel)
			r.Get("/ws", s.duelSocket)
		})
	})
}

// Close disconnects all WebSocket clients.
func (s *Server) Close() { s.sessions.closeAll() }

// geometry returns the cached layout for p, building it on first use.
func (s *Server) geometry(p street.MapParams) (*street.MapGeometry, error) {
	s.geomMu.Lock()
	defer s.geomMu.Unlock()
	if g, ok := s.geoms[p]; ok {
		return g, nil
	}
	g, err := street.NewMapGeometry(p)
	if err != nil {
		return nil, err
	}
	if len(s.geoms) >= maxCachedGeometries {
		clear(s.geoms)
	}
	s.geoms[p] = g
	return g, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	return dec.Decode(v)
}
