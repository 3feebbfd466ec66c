package registry

import (
	"sync"

	"collab-search-be/internal/entity"

	"github.com/google/uuid"
)

// sessionEntry pairs a session with the mutex that serializes every mutation
// against it. The mutex never leaves the registry; callers get at it only
// through WithSession, so the lock granularity stays per-session and the
// registry's own RWMutex only ever guards the maps themselves.
type sessionEntry struct {
	mu      sync.Mutex
	session *entity.Session
}

// SessionRegistry owns the live session set and the reverse index from
// participant id to the sessions they belong to.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionEntry
	byUser   map[uuid.UUID][]uuid.UUID
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[uuid.UUID]*sessionEntry),
		byUser:   make(map[uuid.UUID][]uuid.UUID),
	}
}

// Register adds a session and indexes its owner.
func (r *SessionRegistry) Register(session *entity.Session) {
	r.mu.Lock()
	r.sessions[session.Id] = &sessionEntry{session: session}
	r.byUser[session.OwnerId] = append(r.byUser[session.OwnerId], session.Id)
	r.mu.Unlock()
}

// WithSession runs fn while holding the session's serialization lock. It
// returns false without invoking fn when the session is unknown. fn must not
// call back into the registry's mutating methods for the same session.
func (r *SessionRegistry) WithSession(sessionId uuid.UUID, fn func(*entity.Session)) bool {
	r.mu.RLock()
	entry, ok := r.sessions[sessionId]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	fn(entry.session)
	return true
}

// Remove drops the session from the registry. The caller is expected to have
// already detached it from every participant's index via Unindex.
func (r *SessionRegistry) Remove(sessionId uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionId]; !ok {
		return false
	}
	delete(r.sessions, sessionId)
	return true
}

// Index records that the participant belongs to the session.
func (r *SessionRegistry) Index(participantId, sessionId uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.byUser[participantId] {
		if id == sessionId {
			return
		}
	}
	r.byUser[participantId] = append(r.byUser[participantId], sessionId)
}

// Unindex removes the session from the participant's reverse index.
func (r *SessionRegistry) Unindex(participantId, sessionId uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.byUser[participantId]
	for i, id := range ids {
		if id == sessionId {
			r.byUser[participantId] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(r.byUser[participantId]) == 0 {
		delete(r.byUser, participantId)
	}
}

// UserSessions returns the ids of the sessions the participant belongs to.
func (r *SessionRegistry) UserSessions(participantId uuid.UUID) []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]uuid.UUID, len(r.byUser[participantId]))
	copy(ids, r.byUser[participantId])
	return ids
}

// SessionIds snapshots the ids of all registered sessions. Used by the
// reaper so the sweep never holds the registry lock while visiting sessions.
func (r *SessionRegistry) SessionIds() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}

// ActiveCount reports how many registered sessions with the given owner are
// still active. Consulted by the create-session quota check.
func (r *SessionRegistry) ActiveCount(ownerId uuid.UUID) int {
	r.mu.RLock()
	ids := make([]uuid.UUID, len(r.byUser[ownerId]))
	copy(ids, r.byUser[ownerId])
	entries := make([]*sessionEntry, 0, len(ids))
	for _, id := range ids {
		if entry, ok := r.sessions[id]; ok {
			entries = append(entries, entry)
		}
	}
	r.mu.RUnlock()

	count := 0
	for _, entry := range entries {
		entry.mu.Lock()
		if entry.session.IsActive && entry.session.OwnerId == ownerId {
			count++
		}
		entry.mu.Unlock()
	}
	return count
}
