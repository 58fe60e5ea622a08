package service

import (
	"sync"

	"github.com/apexneural-anniesiri/Project-CUA/internal/application/port/input"
)

// SessionRegistry maps opaque session ids to live agent sessions. It is the
// only structure shared across requests, so every access goes through the
// lock; per-session serialization is the session's own concern.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]input.AgentSession
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]input.AgentSession),
	}
}

func (r *SessionRegistry) Put(id string, session input.AgentSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = session
}

func (r *SessionRegistry) Get(id string) (input.AgentSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	return session, ok
}

// Remove drops the id from the registry. Removing an unknown id is a no-op.
func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Drain empties the registry and returns what it held, for shutdown paths
// that still need to dispose each session.
func (r *SessionRegistry) Drain() []input.AgentSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]input.AgentSession, 0, len(r.sessions))
	for _, session := range r.sessions {
		result = append(result, session)
	}
	r.sessions = make(map[string]input.AgentSession)
	return result
}
