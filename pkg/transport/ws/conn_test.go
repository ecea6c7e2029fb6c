package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/nlholdem/server/pkg/session"
)

// dialPair spins up a raw echo-less upgrade endpoint and returns the
// server-side *websocket.Conn (wrapped in conn) plus the client dialer
// connection, for exercising conn in isolation from the session registry.
func dialPair(t *testing.T) (*conn, *websocket.Conn, func()) {
	t.Helper()
	var serverConn *conn
	ready := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		serverConn = newConn(raw, nil)
		serverConn.start()
		close(ready)
		serverConn.readLoop(func(session.Inbound) {})
	})
	srv := httptest.NewServer(mux)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	<-ready
	return serverConn, client, func() {
		client.Close()
		srv.Close()
	}
}

func TestConnSendDeliversToClient(t *testing.T) {
	sc, client, cleanup := dialPair(t)
	defer cleanup()

	require.NoError(t, sc.Send(session.Outbound{Type: session.OutGameState, Error: "x"}))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	var out session.Outbound
	require.NoError(t, client.ReadJSON(&out))
	require.Equal(t, session.OutGameState, out.Type)
	require.Equal(t, "x", out.Error)
}

func TestConnCloseIsIdempotent(t *testing.T) {
	sc, _, cleanup := dialPair(t)
	defer cleanup()

	require.NoError(t, sc.close())
	require.NoError(t, sc.close())
}

func TestConnSendAfterCloseReturnsError(t *testing.T) {
	sc, _, cleanup := dialPair(t)
	defer cleanup()

	require.NoError(t, sc.close())
	err := sc.Send(session.Outbound{Type: session.OutGameState})
	require.Error(t, err)
}
