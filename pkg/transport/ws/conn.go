package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/gorilla/websocket"
	"github.com/nlholdem/server/pkg/session"
)

// conn wraps a *websocket.Conn as a session.Connection, with a buffered
// writer goroutine and ping/pong keepalive (grounded on pokerforbots'
// internal/server/connection.go read/write pumps).
type conn struct {
	ws   *websocket.Conn
	send chan session.Outbound
	log  slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

func newConn(ws *websocket.Conn, log slog.Logger) *conn {
	return &conn{
		ws:   ws,
		send: make(chan session.Outbound, 256),
		log:  log,
		done: make(chan struct{}),
	}
}

func (c *conn) start() {
	go c.writePump()
}

// Send implements session.Connection. It never blocks: a full buffer
// closes the connection rather than stalling the session goroutine that
// is broadcasting to every viewer. done is checked first and
// non-blockingly, since a buffered send on c.send stays "ready" purely
// on available capacity regardless of done's state, and a plain
// three-way select could otherwise hand a closed connection a spurious
// nil result by queuing into a channel writePump has already stopped
// draining.
func (c *conn) Send(out session.Outbound) error {
	select {
	case <-c.done:
		return websocket.ErrCloseSent
	default:
	}
	select {
	case c.send <- out:
		return nil
	case <-c.done:
		return websocket.ErrCloseSent
	default:
		_ = c.close()
		return websocket.ErrCloseSent
	}
}

func (c *conn) close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.ws.Close()
	})
	return err
}

// readLoop blocks, decoding inbound envelopes and invoking handle for
// each, until the connection errors or closes. Malformed JSON produces
// an error envelope rather than closing the socket (spec.md §6).
func (c *conn) readLoop(handle func(session.Inbound)) {
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if c.log != nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Errorf("ws read: %v", err)
			}
			return
		}
		var in session.Inbound
		if err := json.Unmarshal(data, &in); err != nil {
			_ = c.Send(session.Outbound{Type: session.OutError, Error: "malformed message: " + err.Error()})
			continue
		}
		handle(in)
	}
}

func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case out, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteJSON(out); err != nil {
				if c.log != nil {
					c.log.Errorf("ws write: %v", err)
				}
				_ = c.close()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}
