// Package memory provides a process-local session store for deployments
// without Redis and for tests. All mutations are serialized by a single
// mutex guarding the map and the TTL sweep.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/addisbites/ordering-system/internal/core/domain"
)

// SessionRepository is a mutex-guarded in-memory session store. Expired
// entries are dropped lazily on Find; Sweep removes them in bulk.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

// NewSessionRepository creates an empty in-memory session store.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]*domain.Session)}
}

// Save stores the session under its token.
func (r *SessionRepository) Save(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *session
	r.sessions[session.Token] = &clone
	return nil
}

// Find retrieves a session by token, dropping it if it has already expired
// so that an expired token is indistinguishable from an unknown one.
func (r *SessionRepository) Find(_ context.Context, token string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if session.Expired(time.Now()) {
		delete(r.sessions, token)
		return nil, domain.ErrSessionNotFound
	}

	clone := *session
	return &clone, nil
}

// Delete removes a session. Deleting an absent token is a no-op.
func (r *SessionRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

// Sweep removes all sessions expired at the given instant and reports how
// many were dropped.
func (r *SessionRepository) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for token, session := range r.sessions {
		if session.Expired(now) {
			delete(r.sessions, token)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored sessions, expired or not.
func (r *SessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
