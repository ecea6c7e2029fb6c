package session

import "sync"

// Connection is the minimal surface a transport (WS, or an in-process
// test double) must implement to receive a session's outbound envelopes;
// it mirrors the teacher's per-stream fan-out (pkg/server/poker.go's
// gameStreams[tableID][playerID]) without coupling session to gorilla/
// websocket directly.
type Connection interface {
	Send(Outbound) error
}

// connections is a game's playerID -> Connection fan-out table, guarded
// by its own lock because Session.Disconnect changes it from outside the
// session goroutine (pkg/server/server.go's gameStreamsMu pattern).
type connections struct {
	mu   sync.RWMutex
	byID map[string]Connection
}

func newConnections() *connections {
	return &connections{byID: make(map[string]Connection)}
}

// Register attaches conn under playerID, replacing any prior connection
// for that player (a reconnect).
func (c *connections) Register(playerID string, conn Connection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[playerID] = conn
}

// Unregister removes playerID's connection if it still matches conn; a
// stale unregister from a connection that already lost the race to a
// reconnect is a no-op.
func (c *connections) Unregister(playerID string, conn Connection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.byID[playerID] == conn {
		delete(c.byID, playerID)
	}
}

// Broadcast sends build(playerID) to every registered connection. build
// lets each recipient get its own viewer-scoped payload.
func (c *connections) Broadcast(build func(playerID string) Outbound) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for playerID, conn := range c.byID {
		_ = conn.Send(build(playerID))
	}
}

// Send delivers to a single player if connected; ok reports whether a
// connection was found.
func (c *connections) Send(playerID string, out Outbound) (ok bool) {
	c.mu.RLock()
	conn, found := c.byID[playerID]
	c.mu.RUnlock()
	if !found {
		return false
	}
	return conn.Send(out) == nil
}
