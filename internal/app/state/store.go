// internal/app/state/store.go
package state

import "sync"

// Store holds the UI state for every live session, keyed by the sid the
// session manager assigns at sign-in. Entries are dropped at sign-out.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore returns an empty state store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Get returns the session state for sid, creating a fresh default state
// on first access.
func (st *Store) Get(sid string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[sid]
	if !ok {
		s = newSession()
		st.sessions[sid] = s
	}
	return s
}

// Drop applies the logout transition and removes the entry. A fetch
// still in flight keeps its *Session pointer; the epoch bump inside
// Logout makes its late result a no-op.
func (st *Store) Drop(sid string) {
	st.mu.Lock()
	s, ok := st.sessions[sid]
	if ok {
		delete(st.sessions, sid)
	}
	st.mu.Unlock()
	if ok {
		s.Logout()
	}
}

// Len reports how many sessions currently hold state.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
