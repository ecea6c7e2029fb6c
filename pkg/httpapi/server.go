// Package httpapi implements the REST surface of spec.md §6 (single-play
// bootstrap, game lookup, game teardown) using gorilla/mux, the router
// named in the primoPoker manifest pulled into the dependency pack.
package httpapi

import (
	"encoding/json"
	"math/rand"
	"net/http"

	"github.com/decred/slog"
	"github.com/gorilla/mux"
	"github.com/nlholdem/server/pkg/config"
	"github.com/nlholdem/server/pkg/engine"
	"github.com/nlholdem/server/pkg/session"
)

// Server wires the registry into mux routes.
type Server struct {
	registry *session.Registry
	cfg      config.Config
	log      slog.Logger
}

// NewServer builds an httpapi.Server.
func NewServer(registry *session.Registry, cfg config.Config, log slog.Logger) *Server {
	return &Server{registry: registry, cfg: cfg, log: log}
}

// Register mounts every route on r.
func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/api/games/single-play", s.createSinglePlay).Methods(http.MethodPost)
	r.HandleFunc("/api/games/{id}", s.getGame).Methods(http.MethodGet)
	r.HandleFunc("/api/games/{id}", s.deleteGame).Methods(http.MethodDelete)
}

type singlePlayResponse struct {
	GameID       string `json:"game_id"`
	WebsocketURL string `json:"websocket_url"`
}

// createSinglePlay seeds a game with two AI seats (indices 1,2) and
// leaves seat 0 open for a human, per spec.md §6.
func (s *Server) createSinglePlay(w http.ResponseWriter, r *http.Request) {
	deps := session.Deps{
		Log:            s.log,
		AIThinkTime:    s.cfg.AIThinkTime,
		TurnDeadline:   s.cfg.TurnDeadline,
		AutoStartDelay: s.cfg.AutoStartDelay,
	}
	if s.cfg.RNGSeed != 0 {
		deps.RNG = rand.New(rand.NewSource(s.cfg.RNGSeed))
	}
	sess := s.registry.Create(3, s.cfg.MinSmallBlind, s.cfg.MinSmallBlind*2, deps)

	for i, name := range []string{"Bot A", "Bot B"} {
		idx := i + 1
		if err := sess.SeatPlayer(idx, &engine.Player{ID: "ai-" + name, Name: name, IsAI: true}, s.cfg.MinBuyIn); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, singlePlayResponse{
		GameID:       sess.ID,
		WebsocketURL: "/ws/game/" + sess.ID,
	})
}

type gameStatusResponse struct {
	GameID      string `json:"game_id"`
	Status      string `json:"status"`
	PlayerCount int    `json:"player_count"`
	SeatedCount int    `json:"seated_count"`
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, ok := s.registry.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	view := sess.View("")
	seated := 0
	for _, seat := range view.Seats {
		if seat.PlayerID != "" {
			seated++
		}
	}

	writeJSON(w, http.StatusOK, gameStatusResponse{
		GameID:      view.GameID,
		Status:      view.Status,
		PlayerCount: len(view.Seats),
		SeatedCount: seated,
	})
}

func (s *Server) deleteGame(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, ok := s.registry.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	sess.Close()
	s.registry.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
