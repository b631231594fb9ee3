package app

import (
	"fmt"
	"sync"

	"sheetchat/internal/budget"
	"sheetchat/internal/dataset"
	"sheetchat/internal/model"
)

// Session holds all state for one interactive user: the selected source, its
// loaded table, the bounded context derived from it, and the turn history.
// History lives only here; it is never reloaded from storage.
type Session struct {
	ID string

	mu       sync.Mutex
	sourceID string
	table    *dataset.Table
	context  *budget.BoundedContext
	history  []model.Message
}

// SetSelection installs a newly selected source. Switching to a different
// sourceId clears the turn history; reselecting the current source keeps it.
func (s *Session) SetSelection(sourceID string, table *dataset.Table, bounded budget.BoundedContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sourceID != sourceID {
		s.history = nil
	}
	s.sourceID = sourceID
	s.table = table
	s.context = &bounded
}

func (s *Session) Append(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, model.Message{Role: role, Content: content})
}

func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

// History returns a snapshot copy; callers may not mutate session state
// through it.
func (s *Session) History() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Message, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) SourceID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sourceID
}

// Context returns the current bounded context, or nil when no source has
// been selected yet.
func (s *Session) Context() *budget.BoundedContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.context
}

func (s *Session) Table() *dataset.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// SessionStore keeps live sessions in memory. Sessions do not survive a
// restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	nextID   uint64
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

func (st *SessionStore) Create() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.nextID++
	session := &Session{ID: fmt.Sprintf("s-%d", st.nextID)}
	st.sessions[session.ID] = session
	return session
}

func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	session, ok := st.sessions[id]
	return session, ok
}

func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}
