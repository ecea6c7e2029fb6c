// Package ws is the WebSocket transport for the streaming surface at
// /ws/game/{game_id}?username=<name> (spec.md §6), grounded on the
// read/write-pump pattern in pokerforbots' internal/server/connection.go
// adapted to the session.Connection interface and the Inbound/Outbound
// envelopes.
package ws

import (
	"net/http"
	"time"

	"github.com/decred/slog"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/nlholdem/server/pkg/engine"
	"github.com/nlholdem/server/pkg/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades /ws/game/{game_id} connections and wires them into a
// session.Registry.
type Handler struct {
	registry *session.Registry
	log      slog.Logger
}

// NewHandler builds a ws.Handler over registry, logging via log.
func NewHandler(registry *session.Registry, log slog.Logger) *Handler {
	return &Handler{registry: registry, log: log}
}

// Register mounts the handler's route on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/ws/game/{game_id}", h.serve)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["game_id"]
	if gameID == "" {
		http.Error(w, "missing game_id", http.StatusBadRequest)
		return
	}
	sess, ok := h.registry.Get(gameID)
	if !ok {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	username := r.URL.Query().Get("username")
	if username == "" {
		http.Error(w, "missing username", http.StatusBadRequest)
		return
	}

	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorf("ws upgrade: %v", err)
		}
		return
	}

	playerID := uuid.NewString()
	conn := newConn(raw, h.log)
	conn.start()

	if err := sess.SeatPlayer(firstOpenSeat(sess), &engine.Player{ID: playerID, Name: username}, 0); err != nil {
		// Seating failures (table full) are reported, not fatal to the
		// socket: the client may still want get_state/spectate.
		_ = conn.Send(session.Outbound{Type: session.OutError, Error: err.Error()})
	}

	view := sess.Connect(playerID, conn)
	_ = conn.Send(session.Outbound{Type: session.OutConnected, Data: session.ConnectedPayload{PlayerID: playerID, GameID: gameID}})
	_ = conn.Send(session.Outbound{Type: session.OutGameState, Data: view})

	conn.readLoop(func(in session.Inbound) {
		dispatch(sess, playerID, in, conn)
	})

	sess.Disconnect(playerID, conn)
	_ = conn.close()
}

// firstOpenSeat returns the lowest-index empty seat, or 0 when every seat
// is taken (seating there then fails and the client gets an error
// envelope). Every connecting player is seated through it, including the
// human at seat 0 of a single-play game, whose AI seats 1 and 2 httpapi
// fills.
func firstOpenSeat(sess *session.Session) int {
	view := sess.View("")
	for _, s := range view.Seats {
		if s.PlayerID == "" {
			return s.Index
		}
	}
	return 0
}

func dispatch(sess *session.Session, playerID string, in session.Inbound, conn *conn) {
	var err error
	switch in.Type {
	case session.InStartGame:
		err = sess.StartNewHand()
	case session.InPlayerAction:
		err = sess.Act(engine.Action{PlayerID: playerID, Type: in.Action, Amount: in.Amount})
	case session.InGetState:
		_ = conn.Send(session.Outbound{Type: session.OutGameState, Data: sess.View(playerID)})
		return
	default:
		_ = conn.Send(session.Outbound{Type: session.OutError, Error: "unknown message type"})
		return
	}
	if err != nil {
		_ = conn.Send(session.Outbound{Type: session.OutError, Error: err.Error()})
	}
}
