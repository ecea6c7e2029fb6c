// Command pokerclient is a terminal reference client for the hand engine
// server, adapted from the teacher's BisonRelay-backed Model/Update/View
// bubbletea client (cmd/client) onto the WS streaming surface: no
// account/balance/table-lobby concepts survive, only connect-and-play.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/nlholdem/server/pkg/session"
)

// envelope mirrors session.Outbound but keeps Data raw so the client can
// decode it into the right concrete type once Type is known.
type envelope struct {
	Type  session.OutboundType `json:"type"`
	Data  json.RawMessage      `json:"data,omitempty"`
	Error string               `json:"error,omitempty"`
}

func main() {
	var (
		addr     string
		gameID   string
		username string
	)
	flag.StringVar(&addr, "addr", "127.0.0.1:8080", "Server host:port")
	flag.StringVar(&gameID, "game", "", "Game id to join; if empty, a single-play game is created")
	flag.StringVar(&username, "username", "", "Display name (defaults to $USER)")
	flag.Parse()

	if username == "" {
		username = os.Getenv("USER")
	}
	if username == "" {
		username = "player"
	}

	if gameID == "" {
		id, err := createSinglePlay(addr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create single-play game: %v\n", err)
			os.Exit(1)
		}
		gameID = id
	}

	wsURL := url.URL{Scheme: "ws", Host: addr, Path: "/ws/game/" + gameID, RawQuery: "username=" + url.QueryEscape(username)}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial %s: %v\n", wsURL.String(), err)
		os.Exit(1)
	}
	defer conn.Close()

	updates := make(chan tea.Msg, 16)
	go readLoop(conn, updates)

	p := tea.NewProgram(initialModel(conn, updates))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ui error: %v\n", err)
		os.Exit(1)
	}
}

func readLoop(conn *websocket.Conn, updates chan<- tea.Msg) {
	defer close(updates)
	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			return
		}
		updates <- decodeEnvelope(env)
	}
}

func decodeEnvelope(env envelope) tea.Msg {
	switch env.Type {
	case session.OutConnected:
		var p session.ConnectedPayload
		_ = json.Unmarshal(env.Data, &p)
		return connectedMsg(p)
	case session.OutGameState:
		var v session.GameStateView
		_ = json.Unmarshal(env.Data, &v)
		return stateMsg(v)
	case session.OutError:
		return errMsg(env.Error)
	default:
		return errMsg("unknown message type " + string(env.Type))
	}
}

type singlePlayResponse struct {
	GameID string `json:"game_id"`
}

func createSinglePlay(addr string) (string, error) {
	resp, err := http.Post("http://"+addr+"/api/games/single-play", "application/json", bytes.NewReader(nil))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("server returned %s", resp.Status)
	}
	var r singlePlayResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", err
	}
	return r.GameID, nil
}
