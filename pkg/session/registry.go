package session

import (
	"sync"

	"github.com/google/uuid"
)

// Registry is the server's game_id -> Session map, grounded on the
// teacher's Server{tables map[string]*poker.Table, mu sync.RWMutex}
// shape (pkg/server/server.go): a single mutex guarding create/lookup/
// delete, one *Session owning its own GameState thereafter (spec.md §5
// "Shared resources").
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create allocates a new game with n seats and the given blinds, returning
// its Session. The game id is a fresh UUID (spec.md §6's game_id).
func (r *Registry) Create(seats int, smallBlind, bigBlind int64, deps Deps) *Session {
	id := uuid.NewString()
	sess := newSession(id, seats, smallBlind, bigBlind, deps)

	r.mu.Lock()
	r.sessions[id] = sess
	r.mu.Unlock()
	return sess
}

// Get looks up a session by id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Delete removes a session from the registry. It does not stop any
// goroutine driving it; callers close the session first.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// List returns every registered game id.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		out = append(out, id)
	}
	return out
}
